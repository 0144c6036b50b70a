package main

import (
	"hostelsaathi/internal/bootstrap"
	pkg "hostelsaathi/pkg/routes"

	"go.uber.org/fx"
)

func main() {
	bootstrap.Loadenv()

	app := fx.New(
		pkg.EchoModules,
	)

	app.Run()
}
