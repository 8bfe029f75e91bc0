package main

import "github.com/putrasera/seranet/app"

func main() {
	app.Run()
}
