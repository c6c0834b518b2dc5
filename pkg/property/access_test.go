package property

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/mocks"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/backend/sim"
	"github.com/vividos/RemotePhotoTool-sub000/pkg/variant"
)

const (
	idShootingMode = 0x0500
	idISO          = 0x0505
	idAv           = 0x0506
	idShots        = 0x050b
	idZoom         = 0x0530
	idWriteOnly    = 0x0540
	idUnknown      = 0x9000
	idUnknownRO    = 0x9001
)

var testTable = MustTable("test",
	Descriptor{Type: TypeShootingMode, ID: idShootingMode, Name: "Shooting mode",
		Access: backend.AccessRead | backend.AccessWrite | backend.AccessEnum,
		Codec:  UInt16Codec, Default: variant.Of(uint16(0)), Format: ShootingModeText.Formatter(), Group: GroupImage},
	Descriptor{Type: TypeISOSpeed, ID: idISO, Name: "ISO speed",
		Access: backend.AccessRead | backend.AccessWrite | backend.AccessEnum,
		Codec:  UInt16Codec, Default: variant.Of(uint16(0)), Format: FormatISO, Group: GroupImage},
	Descriptor{Type: TypeAv, ID: idAv, Name: "Av",
		Access: backend.AccessRead | backend.AccessWrite | backend.AccessEnum,
		Codec:  UInt16Codec, Default: variant.Of(uint16(0)), Format: FormatAperture, Group: GroupImage},
	Descriptor{Type: TypeAvailableShots, ID: idShots, Name: "Available shots",
		Access: backend.AccessRead, Codec: UInt32Codec, Default: variant.Of(uint32(0)), Group: GroupImage},
	Descriptor{Type: TypeCurrentZoomPos, ID: idZoom, Name: "Zoom position",
		Access: backend.AccessWrite, Codec: UInt32Codec, Default: variant.Of(uint32(0)), Local: true, Group: GroupImage},
	Descriptor{ID: idWriteOnly, Name: "Write only", Access: backend.AccessWrite, Codec: UInt8Codec, Group: GroupDevice},
)

func simConfig() sim.Config {
	c := sim.DefaultConfig()
	c.Info.Model = "PowerShot G2"
	rw := backend.AccessRead | backend.AccessWrite
	c.Properties = []sim.Property{
		{ID: idShootingMode, Access: rw, Value: []byte{1, 0},
			EnumErr: backend.NewError("sim", "EnumerateProperty", backend.CodeNotSupported)},
		{ID: idISO, Access: rw | backend.AccessEnum, Value: []byte{0x48, 0x00},
			Values: [][]byte{{0x48, 0}, {0x50, 0}, {0x58, 0}, {0x60, 0}}, EnumCount: 2},
		{ID: idAv, Access: rw, Value: []byte{0x18, 0x00},
			EnumErr: backend.NewError("sim", "EnumerateProperty", backend.CodeNotSupported)},
		{ID: idShots, Access: backend.AccessRead, Value: []byte{42, 0, 0, 0}},
		{ID: idZoom, Access: backend.AccessWrite, Value: []byte{0, 0, 0, 0}},
		{ID: idWriteOnly, Access: backend.AccessWrite, Value: []byte{0}},
		{ID: idUnknown, Access: rw, Value: []byte{1, 2, 3}},
		{ID: idUnknownRO, Access: backend.AccessRead, Value: []byte{9, 0}},
	}
	return c
}

func newTestAccess(t *testing.T) (*Access, *sim.Driver) {
	t.Helper()
	d := sim.New(simConfig())
	a := NewAccess(AccessConfig{
		Driver: d,
		Table:  testTable,
		Quirks: DefaultQuirks(),
		Model:  d.Info().Model,
	})
	return a, d
}

// ISO 0x0505 with a 2 byte encoding on an echoing stub.
func TestISOScenario(t *testing.T) {
	a, _ := newTestAccess(t)

	v, err := a.Get(idISO)
	require.NoError(t, err)
	assert.Equal(t, variant.KindUInt16, v.Kind())

	require.NoError(t, a.Set(idISO, variant.Of(uint16(400))))

	v, err = a.Get(idISO)
	require.NoError(t, err)
	iso, err := variant.Get[uint16](v)
	require.NoError(t, err)
	assert.Equal(t, uint16(400), iso)

	assert.Equal(t, "100", a.DisplayText(idISO, variant.Of(uint16(0x48))))

	id, ok := a.ID(TypeISOSpeed)
	require.True(t, ok)
	assert.Equal(t, uint32(idISO), id)
	assert.Equal(t, "ISO", TypeISOSpeed.String())
}

func TestSetReadOnly(t *testing.T) {
	a, d := newTestAccess(t)

	err := a.Set(idShots, variant.Of(uint32(7)))
	assert.ErrorIs(t, err, ErrReadOnlyProperty)

	raw, _ := d.RawValue(idShots)
	assert.Equal(t, []byte{42, 0, 0, 0}, raw)

	err = a.Set(idUnknownRO, variant.Of(uint16(1)))
	assert.ErrorIs(t, err, ErrReadOnlyProperty)
	raw, _ = d.RawValue(idUnknownRO)
	assert.Equal(t, []byte{9, 0}, raw)
}

func TestSetTypeMismatch(t *testing.T) {
	a, _ := newTestAccess(t)

	err := a.Set(idISO, variant.Of(uint32(400)))
	assert.ErrorIs(t, err, variant.ErrTypeMismatch)
}

func TestGetWriteOnly(t *testing.T) {
	a, _ := newTestAccess(t)

	_, err := a.Get(idWriteOnly)
	assert.ErrorIs(t, err, ErrWriteOnlyProperty)
}

func TestRawFallback(t *testing.T) {
	a, d := newTestAccess(t)

	v, err := a.Get(idUnknown)
	require.NoError(t, err)
	assert.True(t, v.IsArray())
	xs, err := variant.GetArray[uint8](v)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3}, xs)

	v, err = a.Get(idUnknownRO)
	require.NoError(t, err)
	assert.Equal(t, variant.KindUInt16, v.Kind())

	assert.False(t, a.IsReadOnly(idUnknown))
	assert.True(t, a.IsReadOnly(idUnknownRO))

	require.NoError(t, a.Set(idUnknown, variant.Of(uint32(0x01020304))))
	raw, _ := d.RawValue(idUnknown)
	assert.Equal(t, []byte{4, 3, 2, 1}, raw)

	assert.Equal(t, "Unknown (0x9000)", a.Name(idUnknown))
}

func TestIsReadOnlyScanFailure(t *testing.T) {
	a, d := newTestAccess(t)
	d.SetFailure("PropertyInfos", errors.New("scan failed"))

	assert.True(t, a.IsReadOnly(idUnknown))
	assert.False(t, a.IsReadOnly(idISO))
}

func TestLocalSideValue(t *testing.T) {
	a, d := newTestAccess(t)

	v, err := a.Get(idZoom)
	require.NoError(t, err)
	assert.Equal(t, variant.Of(uint32(0)), v)

	require.NoError(t, a.Set(idZoom, variant.Of(uint32(3))))

	v, err = a.Get(idZoom)
	require.NoError(t, err)
	zoom, err := variant.Get[uint32](v)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), zoom)

	raw, _ := d.RawValue(idZoom)
	assert.Equal(t, []byte{3, 0, 0, 0}, raw)
}

func TestEnumCappedByCursorCount(t *testing.T) {
	a, _ := newTestAccess(t)

	values, err := a.Enum(idISO)
	require.NoError(t, err)
	assert.Len(t, values, 2)
}

func TestEnumEndsOnNotAvailable(t *testing.T) {
	d := mocks.NewMockDriver(t)
	d.EXPECT().EnumerateProperty(uint32(idISO)).
		Return(backend.NewSliceCursor([][]byte{{0x48, 0}}, 50), nil)

	a := NewAccess(AccessConfig{Driver: d, Table: testTable})
	values, err := a.Enum(idISO)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, variant.Of(uint16(0x48)), values[0])
}

type endlessCursor struct{}

func (endlessCursor) Count() int            { return 1 << 20 }
func (endlessCursor) Next() ([]byte, error) { return []byte{0x48, 0}, nil }
func (endlessCursor) Close() error          { return nil }

func TestEnumLimit(t *testing.T) {
	d := mocks.NewMockDriver(t)
	d.EXPECT().EnumerateProperty(mock.Anything).Return(endlessCursor{}, nil)

	a := NewAccess(AccessConfig{Driver: d, Table: testTable})
	values, err := a.Enum(idISO)
	require.NoError(t, err)
	assert.Len(t, values, DefaultEnumLimit)

	a = NewAccess(AccessConfig{Driver: d, Table: testTable, EnumLimit: 1000})
	values, err = a.Enum(idISO)
	require.NoError(t, err)
	assert.Len(t, values, MaxEnumLimit)
}

func TestEnumQuirkFallback(t *testing.T) {
	a, _ := newTestAccess(t)

	modes, err := a.Enum(idShootingMode)
	require.NoError(t, err)
	assert.Len(t, modes, 13)
	assert.Equal(t, variant.KindUInt16, modes[0].Kind())

	avs, err := a.Enum(idAv)
	require.NoError(t, err)
	require.NotEmpty(t, avs)
	last, err := variant.Get[uint16](avs[len(avs)-1])
	require.NoError(t, err)
	assert.Equal(t, uint16(0x7fff), last)
}

func TestEnumNotSupportedWithoutQuirk(t *testing.T) {
	d := sim.New(simConfig())
	a := NewAccess(AccessConfig{Driver: d, Table: testTable, Model: "Some Other Camera", Quirks: DefaultQuirks()})

	values, err := a.Enum(idShootingMode)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestEnumNonEnumerable(t *testing.T) {
	d := mocks.NewMockDriver(t)
	a := NewAccess(AccessConfig{Driver: d, Table: testTable})

	values, err := a.Enum(idShots)
	require.NoError(t, err)
	assert.NotNil(t, values)
	assert.Empty(t, values)
}

func TestEnumHardError(t *testing.T) {
	d := mocks.NewMockDriver(t)
	busy := backend.NewError("mock", "EnumerateProperty", backend.CodeDeviceBusy)
	d.EXPECT().EnumerateProperty(uint32(idISO)).Return(nil, busy)

	a := NewAccess(AccessConfig{Driver: d, Table: testTable})
	_, err := a.Enum(idISO)

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	assert.Equal(t, backend.CodeDeviceBusy, be.Code)
}

func TestValueAndName(t *testing.T) {
	a, _ := newTestAccess(t)

	pv, err := a.Value(idShots)
	require.NoError(t, err)
	assert.Equal(t, "test", pv.Backend)
	assert.Equal(t, uint32(idShots), pv.ID)
	assert.True(t, pv.ReadOnly)
	assert.Equal(t, "Available shots", a.Name(idShots))
	assert.Equal(t, "0000002a", a.DisplayText(idShots, pv.Value))
}

func TestIDs(t *testing.T) {
	a, _ := newTestAccess(t)

	image, err := a.IDs(GroupImage)
	require.NoError(t, err)
	assert.Equal(t, []uint32{idShootingMode, idISO, idAv, idShots, idZoom}, image)

	device, err := a.IDs(GroupDevice)
	require.NoError(t, err)
	assert.Equal(t, []uint32{idWriteOnly, idUnknown, idUnknownRO}, device)
}

func TestLockHeldPerCall(t *testing.T) {
	var lock sync.Mutex
	d := mocks.NewMockDriver(t)
	d.EXPECT().GetProperty(uint32(idISO)).RunAndReturn(func(uint32) ([]byte, error) {
		assert.False(t, lock.TryLock(), "device lock must be held during the call")
		return []byte{0x48, 0}, nil
	})

	a := NewAccess(AccessConfig{Driver: d, Table: testTable, Lock: &lock})
	_, err := a.Get(idISO)
	require.NoError(t, err)

	require.True(t, lock.TryLock())
	lock.Unlock()
}

func TestLockReleasedWhenDriverPanics(t *testing.T) {
	var lock sync.Mutex
	d := mocks.NewMockDriver(t)
	d.EXPECT().GetProperty(uint32(idISO)).RunAndReturn(func(uint32) ([]byte, error) {
		panic("driver crashed")
	}).Once()
	d.EXPECT().GetProperty(uint32(idISO)).Return([]byte{0x50, 0}, nil).Once()

	a := NewAccess(AccessConfig{Driver: d, Table: testTable, Lock: &lock})
	assert.Panics(t, func() { _, _ = a.Get(idISO) })

	require.True(t, lock.TryLock(), "device lock must be free after a panic")
	lock.Unlock()

	v, err := a.Get(idISO)
	require.NoError(t, err)
	iso, err := variant.Get[uint16](v)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x50), iso)
}

func TestDuplicateTableRows(t *testing.T) {
	_, err := NewTable("dup",
		Descriptor{ID: 1, Name: "a"},
		Descriptor{ID: 1, Name: "b"},
	)
	assert.ErrorIs(t, err, ErrDuplicateProperty)

	_, err = NewTable("dup",
		Descriptor{Type: TypeAv, ID: 1},
		Descriptor{Type: TypeAv, ID: 2},
	)
	assert.ErrorIs(t, err, ErrDuplicateProperty)
}
