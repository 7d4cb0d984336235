package dsmr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zuidwijk/dsmr/internal/obis"
)

func TestNewRegistryRejectsDuplicateID(t *testing.T) {
	_, err := NewRegistry([]Field{
		Fixed(obis.New(1, 0, 1, 8, 0), "a", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 0), "b", UnitKWh, UnitWh),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "share OBIS reference")
}

func TestNewRegistryRejectsDuplicateName(t *testing.T) {
	_, err := NewRegistry([]Field{
		Fixed(obis.New(1, 0, 1, 8, 1), "a", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 2), "a", UnitKWh, UnitWh),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate field name")
}

func TestNewRegistryRejectsUnnamedField(t *testing.T) {
	_, err := NewRegistry([]Field{
		Fixed(obis.New(1, 0, 1, 8, 1), "", UnitKWh, UnitWh),
	})
	require.Error(t, err)
}

func TestRegistryFirstMatchWins(t *testing.T) {
	// Lookup is ordered: when two descriptors answer to the same
	// reference the earlier one is dispatched. NewRegistry forbids the
	// duplicate, so exercise lookup directly.
	r, err := NewRegistry([]Field{
		Fixed(obis.New(1, 0, 1, 8, 1), "first", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 2), "second", UnitKWh, UnitWh),
	})
	require.NoError(t, err)

	idx, ok := r.lookup(obis.New(1, 0, 1, 8, 1))
	require.True(t, ok)
	require.Equal(t, 0, idx)

	_, ok = r.lookup(obis.New(9, 9, 9, 9, 9))
	require.False(t, ok)
}

func TestRegistryFieldsCopy(t *testing.T) {
	r, err := NewRegistry([]Field{
		Fixed(obis.New(1, 0, 1, 8, 1), "a", UnitKWh, UnitWh),
	})
	require.NoError(t, err)

	fields := r.Fields()
	fields[0].Name = "mutated"
	again := r.Fields()
	require.Equal(t, "a", again[0].Name)
}

func TestBuiltinVariants(t *testing.T) {
	names := Variants()
	require.Subset(t, names, []string{"be", "lu", "nl"})

	for _, name := range []string{"nl", "be", "lu"} {
		r, err := Variant(name)
		require.NoError(t, err, name)
		_, ok := r.index("energy_delivered_tariff1")
		require.True(t, ok, name)
	}

	lu, err := Variant("lu")
	require.NoError(t, err)
	_, ok := lu.index("frequency")
	require.True(t, ok)

	_, err = Variant("de")
	require.Error(t, err)
}

func TestRegisterVariant(t *testing.T) {
	r, err := NewRegistry([]Field{
		RawCapture(IdentificationID, "identification"),
	})
	require.NoError(t, err)

	RegisterVariant("custom-test", r)
	got, err := Variant("custom-test")
	require.NoError(t, err)
	require.Same(t, r, got)
	require.Contains(t, Variants(), "custom-test")
}
