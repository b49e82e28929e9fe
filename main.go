package main

import "github.com/dong279/mumu-express/internal/app"

// @title           mumu API
// @version         1.0
// @description     Бэкенд мобильного приложения по уходу за питомцами

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer {access_token}
func main() {
	app.Run()
}
