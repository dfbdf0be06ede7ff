package server

import (
	"sync"

	"github.com/headpin-io/headpin-app/gpio"
)

// deviceManager serializes whole-device reinitializations against each
// other. Single pin operations already serialize inside the device; this
// keeps two concurrent reinit calls from interleaving their shutdown and
// init halves.
type deviceManager struct {
	device *gpio.Device
	mu     *sync.Mutex
}

func (m *deviceManager) Reinit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.device.Shutdown()
	m.device.Init()
}
