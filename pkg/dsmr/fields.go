package dsmr

import "github.com/zuidwijk/dsmr/internal/obis"

// M-Bus channel assignments for the slave meters attached to the
// electricity meter. These follow the common Dutch installation
// order; a custom field set can rebind them.
const (
	GasChannel     = 1
	WaterChannel   = 2
	ThermalChannel = 3
	SubChannel     = 4
)

// baseFields are the descriptors shared by every country variant.
func baseFields() []Field {
	return []Field{
		// The identification line is not a normal field but a
		// specially formatted first line of the message.
		RawCapture(IdentificationID, "identification"),

		Str(obis.New(1, 3, 0, 2, 8), "p1_version", 2, 2),
		Timestamp(obis.New(0, 0, 1, 0, 0), "timestamp"),
		Str(obis.New(0, 0, 96, 1, 0), "equipment_id", 0, 96),

		Fixed(obis.New(1, 0, 1, 8, 1), "energy_delivered_tariff1", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 2), "energy_delivered_tariff2", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 3), "energy_delivered_tariff3", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 1, 8, 4), "energy_delivered_tariff4", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 2, 8, 1), "energy_returned_tariff1", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 2, 8, 2), "energy_returned_tariff2", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 2, 8, 3), "energy_returned_tariff3", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 2, 8, 4), "energy_returned_tariff4", UnitKWh, UnitWh),

		// Absolute active energy (|A|), total and per tariff.
		Fixed(obis.New(1, 0, 15, 8, 0), "energy_absolute", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 15, 8, 1), "energy_absolute_tariff1", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 15, 8, 2), "energy_absolute_tariff2", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 15, 8, 3), "energy_absolute_tariff3", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 15, 8, 4), "energy_absolute_tariff4", UnitKWh, UnitWh),

		// Sum active energy without reverse blockade (A+ - A-).
		Fixed(obis.New(1, 0, 16, 8, 0), "energy_sum_no_blockade", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 16, 8, 1), "energy_sum_no_blockade_tariff1", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 16, 8, 2), "energy_sum_no_blockade_tariff2", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 16, 8, 3), "energy_sum_no_blockade_tariff3", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 16, 8, 4), "energy_sum_no_blockade_tariff4", UnitKWh, UnitWh),

		// Reactive energy per tariff. The Q+ total (1-0:3.8.0) is a
		// Luxembourg register and lives in that overlay.
		Fixed(obis.New(1, 0, 3, 8, 1), "reactive_energy_delivered_tariff1", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 3, 8, 2), "reactive_energy_delivered_tariff2", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 3, 8, 3), "reactive_energy_delivered_tariff3", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 3, 8, 4), "reactive_energy_delivered_tariff4", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 4, 8, 0), "reactive_energy_returned", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 4, 8, 1), "reactive_energy_returned_tariff1", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 4, 8, 2), "reactive_energy_returned_tariff2", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 4, 8, 3), "reactive_energy_returned_tariff3", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 4, 8, 4), "reactive_energy_returned_tariff4", UnitKvarh, UnitKvarh),

		Int(obis.New(0, 0, 96, 14, 0), "electricity_tariff", UnitNone),

		Fixed(obis.New(1, 0, 1, 7, 0), "power_delivered", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 2, 7, 0), "power_returned", UnitKW, UnitW),

		// Reactive power and energy per quadrant.
		Fixed(obis.New(1, 0, 5, 7, 0), "reactive_power_q1", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 6, 7, 0), "reactive_power_q2", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 7, 7, 0), "reactive_power_q3", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 8, 7, 0), "reactive_power_q4", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 5, 8, 0), "reactive_energy_q1", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 6, 8, 0), "reactive_energy_q2", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 7, 8, 0), "reactive_energy_q3", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 8, 8, 0), "reactive_energy_q4", UnitKvarh, UnitKvarh),

		Int(obis.New(0, 0, 96, 7, 21), "electricity_failures", UnitNone),
		Int(obis.New(0, 0, 96, 7, 9), "electricity_long_failures", UnitNone),
		RawCapture(obis.New(1, 0, 99, 97, 0), "electricity_failure_log"),

		Int(obis.New(1, 0, 32, 32, 0), "electricity_sags_l1", UnitNone),
		Int(obis.New(1, 0, 52, 32, 0), "electricity_sags_l2", UnitNone),
		Int(obis.New(1, 0, 72, 32, 0), "electricity_sags_l3", UnitNone),
		Int(obis.New(1, 0, 32, 36, 0), "electricity_swells_l1", UnitNone),
		Int(obis.New(1, 0, 52, 36, 0), "electricity_swells_l2", UnitNone),
		Int(obis.New(1, 0, 72, 36, 0), "electricity_swells_l3", UnitNone),

		Str(obis.New(0, 0, 96, 13, 1), "message_short", 0, 16),
		Str(obis.New(0, 0, 96, 13, 0), "message_long", 0, 2048),

		Fixed(obis.New(1, 0, 32, 7, 0), "voltage_l1", UnitV, UnitMV),
		Fixed(obis.New(1, 0, 52, 7, 0), "voltage_l2", UnitV, UnitMV),
		Fixed(obis.New(1, 0, 72, 7, 0), "voltage_l3", UnitV, UnitMV),
		Fixed(obis.New(1, 0, 31, 7, 0), "current_l1", UnitA, UnitMA),
		Fixed(obis.New(1, 0, 51, 7, 0), "current_l2", UnitA, UnitMA),
		Fixed(obis.New(1, 0, 71, 7, 0), "current_l3", UnitA, UnitMA),

		Fixed(obis.New(1, 0, 21, 7, 0), "power_delivered_l1", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 41, 7, 0), "power_delivered_l2", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 61, 7, 0), "power_delivered_l3", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 22, 7, 0), "power_returned_l1", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 42, 7, 0), "power_returned_l2", UnitKW, UnitW),
		Fixed(obis.New(1, 0, 62, 7, 0), "power_returned_l3", UnitKW, UnitW),

		Int(obis.New(0, GasChannel, 24, 1, 0), "gas_device_type", UnitNone),
		Str(obis.New(0, GasChannel, 96, 1, 0), "gas_equipment_id", 0, 96),
		Int(obis.New(0, GasChannel, 24, 4, 0), "gas_valve_position", UnitNone),
		TimestampedFixed(obis.New(0, GasChannel, 24, 2, 1), "gas_delivered", UnitM3, UnitDM3),

		Int(obis.New(0, WaterChannel, 24, 1, 0), "water_device_type", UnitNone),
		Str(obis.New(0, WaterChannel, 96, 1, 0), "water_equipment_id", 0, 96),
		Int(obis.New(0, WaterChannel, 24, 4, 0), "water_valve_position", UnitNone),
		TimestampedFixed(obis.New(0, WaterChannel, 24, 2, 1), "water_delivered", UnitM3, UnitDM3),

		Int(obis.New(0, ThermalChannel, 24, 1, 0), "thermal_device_type", UnitNone),
		Str(obis.New(0, ThermalChannel, 96, 1, 0), "thermal_equipment_id", 0, 96),
		Int(obis.New(0, ThermalChannel, 24, 4, 0), "thermal_valve_position", UnitNone),
		TimestampedFixed(obis.New(0, ThermalChannel, 24, 2, 1), "thermal_delivered", UnitGJ, UnitMJ),

		Int(obis.New(0, SubChannel, 24, 1, 0), "sub_device_type", UnitNone),
		Str(obis.New(0, SubChannel, 96, 1, 0), "sub_equipment_id", 0, 96),
		Int(obis.New(0, SubChannel, 24, 4, 0), "sub_valve_position", UnitNone),
		TimestampedFixed(obis.New(0, SubChannel, 24, 2, 1), "sub_delivered", UnitM3, UnitDM3),
	}
}

// nlFields is the Dutch DSMR 4.x/5.0 set, with the fields removed in
// later revisions kept for older meters.
func nlFields() []Field {
	return append(baseFields(),
		Fixed(obis.New(0, 0, 17, 0, 0), "electricity_threshold", UnitKW, UnitW),
		Int(obis.New(0, 0, 96, 3, 10), "electricity_switch_position", UnitNone),
		RawCapture(obis.New(0, GasChannel, 24, 3, 0), "gas_delivered_text"),
	)
}

// beFields is the Belgian eMUCS set: its own version field, the
// quarter-hourly gas register and the breaker status.
func beFields() []Field {
	return append(baseFields(),
		Str(obis.New(0, 0, 96, 1, 4), "p1_version_be", 2, 5),
		Str(obis.New(0, 0, 96, 50, 68), "breaker_status", 2, 3),
		Str(obis.New(0, GasChannel, 96, 1, 1), "gas_equipment_id_be", 0, 96),
		TimestampedFixed(obis.New(0, GasChannel, 24, 2, 3), "gas_delivered_be", UnitM3, UnitDM3),
	)
}

// luFields is the Luxembourgish Smarty set: energy totals instead of
// per-tariff registers, reactive power and the power quality fields.
func luFields() []Field {
	return append(baseFields(),
		Fixed(obis.New(1, 0, 1, 8, 0), "energy_delivered", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 2, 8, 0), "energy_returned", UnitKWh, UnitWh),
		Fixed(obis.New(1, 0, 3, 8, 0), "reactive_energy_delivered", UnitKvarh, UnitKvarh),
		Fixed(obis.New(1, 0, 3, 7, 0), "reactive_power_delivered", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 4, 7, 0), "reactive_power_returned", UnitKvar, UnitKvar),
		Fixed(obis.New(1, 0, 23, 7, 0), "reactive_power_delivered_l1", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 43, 7, 0), "reactive_power_delivered_l2", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 63, 7, 0), "reactive_power_delivered_l3", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 24, 7, 0), "reactive_power_returned_l1", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 44, 7, 0), "reactive_power_returned_l2", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 64, 7, 0), "reactive_power_returned_l3", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 13, 7, 0), "power_factor", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 33, 7, 0), "power_factor_l1", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 53, 7, 0), "power_factor_l2", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 73, 7, 0), "power_factor_l3", UnitNone, UnitNone),
		Fixed(obis.New(1, 0, 14, 7, 0), "frequency", UnitHz, UnitHz),
	)
}

func init() {
	RegisterVariant("nl", mustRegistry(nlFields()))
	RegisterVariant("be", mustRegistry(beFields()))
	RegisterVariant("lu", mustRegistry(luFields()))
}
