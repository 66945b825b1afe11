package main

//go:generate swag init -g cmd/server/main.go -d ../../ -o ../../docs

// @title           Palay API
// @version         1.0
// @description     Farm labor tracking and rice marketplace
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token
func main() {
	Execute()
}
