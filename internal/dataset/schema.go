package dataset

// Column names used across the temperature exports.
const (
	ColumnDate                           = "dt"
	ColumnAverageTemperature             = "AverageTemperature"
	ColumnAverageTemperatureUncertainty  = "AverageTemperatureUncertainty"
	ColumnCity                           = "City"
	ColumnCountry                        = "Country"
	ColumnState                          = "State"
	ColumnLandAverageTemperature         = "LandAverageTemperature"
	ColumnLandAndOceanAverageTemperature = "LandAndOceanAverageTemperature"
)

// Schema describes one of the five source files: the columns the program
// reads from it, the numeric columns whose NaN or infinite cells count as
// missing, and the columns dropped while cleaning.
type Schema struct {
	Name     string
	File     string
	Required []string
	Numeric  []string
	Drop     []string
}

// Schemas lists the source files in load order.
var Schemas = []Schema{
	{
		Name:     "city",
		File:     "GlobalLandTemperaturesByCity.csv",
		Required: []string{ColumnDate, ColumnAverageTemperature, ColumnCity, ColumnCountry},
		Numeric:  []string{ColumnAverageTemperature, ColumnAverageTemperatureUncertainty},
		Drop:     []string{ColumnAverageTemperatureUncertainty},
	},
	{
		Name:     "country",
		File:     "GlobalLandTemperaturesByCountry.csv",
		Required: []string{ColumnDate, ColumnAverageTemperature, ColumnCountry},
		Numeric:  []string{ColumnAverageTemperature, ColumnAverageTemperatureUncertainty},
	},
	{
		Name:     "major_city",
		File:     "GlobalLandTemperaturesByMajorCity.csv",
		Required: []string{ColumnDate, ColumnAverageTemperature, ColumnCity, ColumnCountry},
		Numeric:  []string{ColumnAverageTemperature, ColumnAverageTemperatureUncertainty},
	},
	{
		Name:     "state",
		File:     "GlobalLandTemperaturesByState.csv",
		Required: []string{ColumnDate, ColumnAverageTemperature, ColumnState, ColumnCountry},
		Numeric:  []string{ColumnAverageTemperature, ColumnAverageTemperatureUncertainty},
	},
	{
		Name:     "global",
		File:     "GlobalTemperatures.csv",
		Required: []string{ColumnDate, ColumnLandAverageTemperature, ColumnLandAndOceanAverageTemperature},
		Numeric:  []string{ColumnLandAverageTemperature, ColumnLandAndOceanAverageTemperature},
	},
}

// MissingColumns returns the required columns absent from t.
func (s Schema) MissingColumns(t *Table) []string {
	var missing []string
	for _, c := range s.Required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}
