package domain

// WarehouseParams holds the fields needed to build a Warehouse.
type WarehouseParams struct {
	ID       string
	Name     string
	Location string
	Active   bool
}

// Warehouse is a stock location. Only active warehouses accept order items.
type Warehouse struct {
	id       string
	name     string
	location string
	active   bool
}

func NewWarehouse(p WarehouseParams) (*Warehouse, error) {
	if err := requireNonEmpty("warehouse id", p.ID); err != nil {
		return nil, err
	}
	w := &Warehouse{id: p.ID, active: p.Active}
	if err := w.SetName(p.Name); err != nil {
		return nil, err
	}
	if err := w.SetLocation(p.Location); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Warehouse) ID() string { return w.id }
func (w *Warehouse) Name() string { return w.name }
func (w *Warehouse) Location() string { return w.location }
func (w *Warehouse) IsActive() bool { return w.active }
func (w *Warehouse) Activate() { w.active = true }
func (w *Warehouse) Deactivate() { w.active = false }

func (w *Warehouse) SetName(name string) error {
	if err := requireNonEmpty("warehouse name", name); err != nil {
		return err
	}
	w.name = name
	return nil
}

func (w *Warehouse) SetLocation(location string) error {
	if err := requireNonEmpty("warehouse location", location); err != nil {
		return err
	}
	w.location = location
	return nil
}

func (w *Warehouse) CanAcceptOrders() bool {
	return w.active
}

func (w *Warehouse) Equals(other *Warehouse) bool {
	return other != nil && w.id == other.id
}
