package main

import (
	"github.com/driano7/XocoCafe-sub000/internal/app"
	"github.com/driano7/XocoCafe-sub000/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
