package main

import (
	"time"

	"github.com/headpin-io/headpin-app/gpio"
)

func main() {
	device := gpio.NewDevice(gpio.Config{})
	device.Init()
	defer device.Shutdown()

	if err := device.SetDirection(gpio.GPIO4, gpio.Out); err != nil {
		panic(err)
	}

	level := gpio.Low
	for {
		level = !level
		if err := device.SetLevel(gpio.GPIO4, level); err != nil {
			panic(err)
		}

		time.Sleep(time.Millisecond * 500)
	}
}
