package main

import "github.com/whoAngeel/proshooter-backend-sub000/cmd"

func main() {
	cmd.Execute()
}
