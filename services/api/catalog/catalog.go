// Package catalog holds the enumerated values the service validates against.
//
// The catalog is versioned and loaded once at startup, from the embedded default or from a
// yaml file, and then handed to the validators that need it.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Set names a list in the catalog.
type Set string

const (
	Regions               Set = "region"
	InstallationTypes     Set = "installation_type"
	LoggerTypes           Set = "logger_type"
	ConnectorTypes        Set = "connector_type"
	SensorTypes           Set = "sensor_type"
	StationSensorStatuses Set = "station_status"
	Frequencies           Set = "frequency"
)

// Formula identifies a resistance to temperature conversion.
type Formula string

const (
	FormulaNone          Formula = ""
	FormulaInverseLog    Formula = "inverse_log"
	FormulaSteinhartHart Formula = "steinhart_hart"
)

// ErrNoFormula is returned when a sensor type has no conversion formula.
var ErrNoFormula = errors.New("sensor type has no resistance conversion formula")

// SensorType is a thermistor kind and its conversion coefficients.
type SensorType struct {
	Name    string  `yaml:"name" json:"name"`
	Formula Formula `yaml:"formula" json:"formula"`
	A       float64 `yaml:"a" json:"a"`
	B       float64 `yaml:"b" json:"b"`
	C       float64 `yaml:"c" json:"c"`
}

// ResistanceToTemperature converts a resistance reading (ohms) to degrees Celsius.
func (s SensorType) ResistanceToTemperature(resistance float64) (float64, error) {
	if resistance <= 0 {
		return 0, fmt.Errorf("resistance must be positive, got %v", resistance)
	}
	lnR := math.Log(resistance)
	switch s.Formula {
	case FormulaInverseLog:
		return s.B/(lnR-s.A) - s.C, nil
	case FormulaSteinhartHart:
		return 1/(s.A+s.B*lnR+s.C*lnR*lnR*lnR) - 273.16, nil
	default:
		return 0, fmt.Errorf("%s: %w", s.Name, ErrNoFormula)
	}
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Catalog is one version of the enumerated values.
type Catalog struct {
	Version               int          `yaml:"version" json:"version"`
	Regions               []string     `yaml:"regions" json:"regions"`
	InstallationTypes     []string     `yaml:"installation_types" json:"installation_types"`
	LoggerTypes           []string     `yaml:"logger_types" json:"logger_types"`
	ConnectorTypes        []string     `yaml:"connector_types" json:"connector_types"`
	SensorTypes           []SensorType `yaml:"sensor_types" json:"sensor_types"`
	StationSensorStatuses []string     `yaml:"station_sensor_statuses" json:"station_sensor_statuses"`
	BatteryYear           YearRange    `yaml:"battery_year" json:"battery_year"`
	Frequencies           []string     `yaml:"frequencies" json:"frequencies"`
	MaxChannels           int          `yaml:"max_channels" json:"max_channels"`
	SurveyMappingColumns  int          `yaml:"survey_mapping_columns" json:"survey_mapping_columns"`
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a yaml catalog.
func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog is internally consistent.
func (c *Catalog) Validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("invalid catalog version: %d", c.Version)
	}
	lists := map[Set]int{
		Regions:               len(c.Regions),
		InstallationTypes:     len(c.InstallationTypes),
		LoggerTypes:           len(c.LoggerTypes),
		ConnectorTypes:        len(c.ConnectorTypes),
		SensorTypes:           len(c.SensorTypes),
		StationSensorStatuses: len(c.StationSensorStatuses),
		Frequencies:           len(c.Frequencies),
	}
	for set, n := range lists {
		if n == 0 {
			return fmt.Errorf("catalog %s list is empty", set)
		}
	}
	for _, st := range c.SensorTypes {
		switch st.Formula {
		case FormulaNone, FormulaInverseLog, FormulaSteinhartHart:
		default:
			return fmt.Errorf("sensor type %s: unknown formula %q", st.Name, st.Formula)
		}
	}
	if c.BatteryYear.Min > c.BatteryYear.Max {
		return fmt.Errorf("invalid battery_year range: %d > %d", c.BatteryYear.Min, c.BatteryYear.Max)
	}
	if c.MaxChannels <= 0 {
		return fmt.Errorf("invalid max_channels: %d", c.MaxChannels)
	}
	if c.SurveyMappingColumns <= 0 {
		return fmt.Errorf("invalid survey_mapping_columns: %d", c.SurveyMappingColumns)
	}
	return nil
}

// Values returns the members of a set.
func (c *Catalog) Values(set Set) []string {
	switch set {
	case Regions:
		return c.Regions
	case InstallationTypes:
		return c.InstallationTypes
	case LoggerTypes:
		return c.LoggerTypes
	case ConnectorTypes:
		return c.ConnectorTypes
	case SensorTypes:
		names := make([]string, 0, len(c.SensorTypes))
		for _, st := range c.SensorTypes {
			names = append(names, st.Name)
		}
		return names
	case StationSensorStatuses:
		return c.StationSensorStatuses
	case Frequencies:
		return c.Frequencies
	}
	return nil
}

// Contains reports whether value is a member of set.
func (c *Catalog) Contains(set Set, value string) bool {
	return slices.Contains(c.Values(set), value)
}

// SensorType looks up a sensor type by name.
func (c *Catalog) SensorType(name string) (SensorType, bool) {
	for _, st := range c.SensorTypes {
		if st.Name == name {
			return st, true
		}
	}
	return SensorType{}, false
}
