package main

//go:generate swag init -g cmd/tracker/main.go -o docs

// @title           Baketrack API
// @version         0.1.0
// @description     Samosa production ledgers, stock balances, and market day tracking.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
