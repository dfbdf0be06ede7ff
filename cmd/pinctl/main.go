package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/headpin-io/headpin-app/gpio"
	"github.com/headpin-io/headpin-app/internal/logutil"
)

func main() {
	list := flag.Bool("list", false, "print the pin catalog and exit")
	pinQuery := flag.String("pin", "", "pin to operate on: BCM line number, label or name")
	dir := flag.String("dir", "", "set the pin direction: in or out")
	level := flag.String("level", "", "set the pin level: high or low")
	read := flag.Bool("read", false, "read the level back from the kernel before printing")
	release := flag.Bool("release", false, "unexport all pins before exiting")
	asJSON := flag.Bool("json", false, "print results as JSON")
	logLevel := flag.String("loglevel", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	logger := logutil.NewAtLevel(*logLevel)

	device := gpio.NewDevice(gpio.Config{Logger: logger})
	device.Init()

	// pins stay exported across invocations on purpose: unexporting
	// would reset the hardware state this tool just set up. The next
	// Init tolerates the leftover exports.
	if *release {
		defer device.Shutdown()
	}

	switch {
	case *list:
		if err := printCatalog(device, *asJSON); err != nil {
			logger.WithError(err).Fatal("unable to list pins")
		}
	case *pinQuery != "":
		pin, err := device.FindPin(*pinQuery)
		if err != nil {
			logger.WithError(err).Fatal("unable to find pin")
		}

		if *dir != "" {
			parsed, err := gpio.ParseDirection(*dir)
			if err != nil {
				logger.WithError(err).Fatal("unable to parse direction")
			}
			if err := device.SetDirection(pin.ID, parsed); err != nil {
				logger.WithError(err).Fatal("unable to set direction")
			}
		}

		if *level != "" {
			parsed, err := gpio.ParseLevel(*level)
			if err != nil {
				logger.WithError(err).Fatal("unable to parse level")
			}
			if err := device.SetLevel(pin.ID, parsed); err != nil {
				logger.WithError(err).Fatal("unable to set level")
			}
		}

		if *read {
			if _, err := device.Level(pin.ID); err != nil {
				logger.WithError(err).Fatal("unable to read level")
			}
		}

		pin, err = device.FindPin(*pinQuery)
		if err != nil {
			logger.WithError(err).Fatal("unable to find pin")
		}

		if err := printPin(pin, *asJSON); err != nil {
			logger.WithError(err).Fatal("unable to print pin")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printCatalog(device *gpio.Device, asJSON bool) error {
	pins, err := device.Pins()
	if err != nil {
		return err
	}

	if asJSON {
		out, err := json.MarshalIndent(pins, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal pins: %w", err)
		}

		fmt.Println(string(out))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "POS\tNAME\tLABEL\tKIND\tDIR\tLEVEL")
	for _, p := range pins {
		if p.Kind != gpio.KindGPIO {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t\t\n", p.ID, p.Name, p.Label, p.Kind)
			continue
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Label, p.Kind, p.Direction, p.Level)
	}

	return w.Flush()
}

func printPin(pin gpio.Pin, asJSON bool) error {
	if asJSON {
		out, err := json.MarshalIndent(pin, "", "  ")
		if err != nil {
			return fmt.Errorf("unable to marshal pin: %w", err)
		}

		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("%s (%s) %s %s\n", pin.Name, pin.Label, pin.Direction, pin.Level)
	return nil
}
