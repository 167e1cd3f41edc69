// Package main provides the entry point of the kitchen API server
package main

func main() {
	Execute()
}
