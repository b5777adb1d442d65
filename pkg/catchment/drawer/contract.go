package drawer

import "github.com/askiada/go-wbnm/pkg/catchment"

// Drawer renders a catchment network.
type Drawer interface {
	// Draw writes the network of m.
	Draw(m *catchment.Model) error
}
