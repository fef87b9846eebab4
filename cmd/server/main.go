package main

import (
	"mailauth/internal/app"
)

// @title           mailauth API
// @version         1.0
// @description     Signup with email verification, login, and password reset.
// @BasePath        /
func main() {
	app.Run()
}
