package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/ignore/internal"
	"github.com/rios0rios0/ignore/internal/infrastructure/controllers"
)

func injectAppContext() (*internal.AppInternal, *controllers.GenerateController) {
	container := dig.New()

	// Register all providers
	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	// Invoke to get AppInternal and the controller behind the root command
	var appInternal *internal.AppInternal
	var generateController *controllers.GenerateController
	if err := container.Invoke(func(ai *internal.AppInternal, gc *controllers.GenerateController) {
		appInternal = ai
		generateController = gc
	}); err != nil {
		panic(err)
	}

	return appInternal, generateController
}
