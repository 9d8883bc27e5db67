package main

import "userdesk/internal/app"

// @title                       userdesk API
// @version                     1.0
// @description                 Registration, sign-in, OTP password reset and admin routes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	app.Run()
}
