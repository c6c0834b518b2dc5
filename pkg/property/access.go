package property

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

// Enumeration caps guarding against cursors that never end.
const (
	DefaultEnumLimit = 100
	MaxEnumLimit     = 200
)

// AccessConfig configures a property accessor.
type AccessConfig struct {
	Driver backend.Driver
	Table  *Table

	// Quirks supplies enumeration fallbacks. May be nil.
	Quirks *Quirks

	// Model is the camera model name matched against quirk rules.
	Model string

	// Lock is the per-device lock shared with the viewfinder. It is held
	// for exactly one backend call. If nil, a private lock is used.
	Lock *sync.Mutex

	// EnumLimit caps enumeration; 0 selects DefaultEnumLimit.
	EnumLimit int

	// Logger receives backend traffic at Debug. If nil, logging is disabled.
	Logger *slog.Logger
}

// Access reads, writes and enumerates the properties of one device.
type Access struct {
	driver    backend.Driver
	table     *Table
	quirks    *Quirks
	model     string
	lock      *sync.Mutex
	enumLimit int
	logger    *slog.Logger

	sideMu sync.Mutex
	side   map[uint32]variant.Variant
}

// NewAccess creates a property accessor.
func NewAccess(config AccessConfig) *Access {
	a := &Access{
		driver:    config.Driver,
		table:     config.Table,
		quirks:    config.Quirks,
		model:     config.Model,
		lock:      config.Lock,
		enumLimit: config.EnumLimit,
		logger:    config.Logger,
		side:      make(map[uint32]variant.Variant),
	}
	if a.table == nil {
		a.table = MustTable("raw")
	}
	if a.lock == nil {
		a.lock = &sync.Mutex{}
	}
	if a.enumLimit <= 0 {
		a.enumLimit = DefaultEnumLimit
	}
	a.enumLimit = min(a.enumLimit, MaxEnumLimit)
	return a
}

// Table returns the descriptor table.
func (a *Access) Table() *Table {
	return a.table
}

// Get reads the current value of a property.
func (a *Access) Get(id uint32) (variant.Variant, error) {
	desc, known := a.table.Lookup(id)
	if known && desc.Local {
		return a.sideValue(desc), nil
	}
	if known && !desc.Access.Has(backend.AccessRead) {
		return variant.Invalid(), fmt.Errorf("%w: %s", ErrWriteOnlyProperty, desc.Name)
	}

	var raw []byte
	err := a.call("GetProperty", id, func() (err error) {
		raw, err = a.driver.GetProperty(id)
		return err
	})
	if err != nil {
		return variant.Invalid(), fmt.Errorf("get property 0x%04x: %w", id, err)
	}

	if !known {
		return DecodeRaw(raw), nil
	}
	v, err := desc.Codec.Decode(raw)
	if err != nil {
		return variant.Invalid(), fmt.Errorf("decode %s: %w", desc.Name, err)
	}
	return v, nil
}

// Set writes a property.
func (a *Access) Set(id uint32, v variant.Variant) error {
	desc, known := a.table.Lookup(id)

	var raw []byte
	var err error
	if known {
		if !desc.Access.Has(backend.AccessWrite) {
			return fmt.Errorf("%w: %s", ErrReadOnlyProperty, desc.Name)
		}
		raw, err = desc.Codec.Encode(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", desc.Name, err)
		}
	} else {
		if a.IsReadOnly(id) {
			return fmt.Errorf("%w: 0x%04x", ErrReadOnlyProperty, id)
		}
		raw, err = EncodeRaw(v)
		if err != nil {
			return fmt.Errorf("encode 0x%04x: %w", id, err)
		}
	}

	err = a.call("SetProperty", id, func() error {
		return a.driver.SetProperty(id, raw)
	})
	if err != nil {
		return fmt.Errorf("set property 0x%04x: %w", id, err)
	}

	if known && desc.Local {
		a.sideMu.Lock()
		a.side[id] = v
		a.sideMu.Unlock()
	}
	return nil
}

// Enum lists the valid values of a property. Non-enumerable properties
// and unsupported enumerations without a quirk fallback yield an empty list.
func (a *Access) Enum(id uint32) ([]variant.Variant, error) {
	desc, known := a.table.Lookup(id)
	if known && !desc.Access.Has(backend.AccessEnum) {
		return []variant.Variant{}, nil
	}

	var cursor backend.Cursor
	err := a.call("EnumerateProperty", id, func() (err error) {
		cursor, err = a.driver.EnumerateProperty(id)
		return err
	})
	if err != nil {
		if backend.IsNotSupported(err) {
			return a.fallback(desc, known)
		}
		return nil, fmt.Errorf("enumerate property 0x%04x: %w", id, err)
	}
	defer func() {
		_ = a.call("CursorClose", id, cursor.Close)
	}()

	decode := decodeRaw
	if known {
		decode = desc.Codec.Decode
	}

	limit := min(cursor.Count(), a.enumLimit)
	values := make([]variant.Variant, 0, max(limit, 0))
	for i := 0; i < limit; i++ {
		var raw []byte
		err := a.call("CursorNext", id, func() (err error) {
			raw, err = cursor.Next()
			return err
		})
		if errors.Is(err, backend.ErrNotAvailable) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("enumerate property 0x%04x: %w", id, err)
		}

		v, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode enumerated value of 0x%04x: %w", id, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func (a *Access) fallback(desc Descriptor, known bool) ([]variant.Variant, error) {
	if !known || desc.Type == TypeUnknown {
		return []variant.Variant{}, nil
	}

	values, ok, err := a.quirks.Fallback(a.model, desc.Type, desc.Default.Kind())
	if err != nil {
		return nil, fmt.Errorf("quirk fallback for %s: %w", desc.Name, err)
	}
	if !ok {
		return []variant.Variant{}, nil
	}
	if a.logger != nil {
		a.logger.Debug("using quirk fallback values",
			slog.String("model", a.model),
			slog.String("property", desc.Type.String()),
			slog.Int("count", len(values)))
	}
	return values, nil
}

// IsReadOnly reports whether a property cannot be written. Properties
// absent from the table are looked up in the device's runtime metadata;
// a failed scan counts as read-only.
func (a *Access) IsReadOnly(id uint32) bool {
	if desc, ok := a.table.Lookup(id); ok {
		return !desc.Access.Has(backend.AccessWrite)
	}

	var infos []backend.PropertyInfo
	err := a.call("PropertyInfos", id, func() (err error) {
		infos, err = a.driver.PropertyInfos()
		return err
	})
	if err != nil {
		if a.logger != nil {
			a.logger.Warn("property metadata scan failed",
				slog.Any("id", id), slog.String("error", err.Error()))
		}
		return true
	}

	i := slices.IndexFunc(infos, func(info backend.PropertyInfo) bool { return info.ID == id })
	if i < 0 {
		return true
	}
	return !infos[i].Access.Has(backend.AccessWrite)
}

// Value returns the current value together with its metadata.
func (a *Access) Value(id uint32) (Value, error) {
	v, err := a.Get(id)
	if err != nil {
		return Value{}, err
	}
	return Value{
		Backend:  a.table.Name(),
		ID:       id,
		Value:    v,
		ReadOnly: a.IsReadOnly(id),
	}, nil
}

// Name returns the display name of a property.
func (a *Access) Name(id uint32) string {
	if desc, ok := a.table.Lookup(id); ok {
		return desc.Name
	}
	return fmt.Sprintf("Unknown (0x%04x)", id)
}

// DisplayText renders v as text for property id.
func (a *Access) DisplayText(id uint32, v variant.Variant) string {
	if desc, ok := a.table.Lookup(id); ok && desc.Format != nil {
		return desc.Format(v)
	}
	return v.String()
}

// ID maps a neutral type to the backend id.
func (a *Access) ID(t Type) (uint32, bool) {
	desc, ok := a.table.ByType(t)
	if !ok {
		return 0, false
	}
	return desc.ID, true
}

// IDs lists the properties of a group present on the device. Table rows
// the device does not report are omitted, except Local rows. Device ids
// absent from the table are listed in GroupDevice.
func (a *Access) IDs(group Group) ([]uint32, error) {
	var present []uint32
	err := a.call("PropertyIDs", 0, func() (err error) {
		present, err = a.driver.PropertyIDs()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	var ids []uint32
	for _, row := range a.table.Rows() {
		if row.Group != group {
			continue
		}
		if row.Local || slices.Contains(present, row.ID) {
			ids = append(ids, row.ID)
		}
	}
	if group == GroupDevice {
		for _, id := range present {
			if _, known := a.table.Lookup(id); !known {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (a *Access) sideValue(desc Descriptor) variant.Variant {
	a.sideMu.Lock()
	defer a.sideMu.Unlock()

	if v, ok := a.side[desc.ID]; ok {
		return v
	}
	return desc.Default
}

// locked holds the device lock for fn, also when fn panics.
func (a *Access) locked(fn func() error) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	return fn()
}

// call runs one backend call under the device lock.
func (a *Access) call(op string, id uint32, fn func() error) error {
	err := a.locked(fn)

	if a.logger != nil {
		if err != nil {
			a.logger.Debug("backend call failed",
				slog.String("op", op), slog.Any("id", id), slog.String("error", err.Error()))
		} else {
			a.logger.Debug("backend call", slog.String("op", op), slog.Any("id", id))
		}
	}
	return err
}
