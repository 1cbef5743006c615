package main

import "github.com/Ananth-NQI/truckpe-carrier-engine/cmd"

func main() {
	cmd.Execute()
}
