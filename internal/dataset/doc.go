// Package dataset loads climate CSV files into typed tables and cleans them.
//
// # Source files
//
// The Berkeley Earth surface temperature exports share a layout: a `dt`
// column holding the first day of the month (`1850-01-01`), monthly
// averages in degrees Celsius, and an uncertainty column per measurement.
// Early records are sparse, so blank temperature cells are common.
//
//	GlobalLandTemperaturesByCity.csv       dt, AverageTemperature, AverageTemperatureUncertainty, City, Country, Latitude, Longitude
//	GlobalLandTemperaturesByCountry.csv    dt, AverageTemperature, AverageTemperatureUncertainty, Country
//	GlobalLandTemperaturesByMajorCity.csv  same as ByCity
//	GlobalLandTemperaturesByState.csv      dt, AverageTemperature, AverageTemperatureUncertainty, State, Country
//	GlobalTemperatures.csv                 dt, LandAverageTemperature, LandAndOceanAverageTemperature, plus uncertainty and min/max columns
//
// # Missing values
//
// A blank CSV field, or one of the not-available tokens (`NA`, `NaN`,
// `null`, ...), loads as [Missing]. [Clean] also turns an unparseable
// date into [Missing] and then drops every row holding one, so after
// cleaning every retained column is populated and the date column is of
// kind [KindTime].
//
// # Typed access
//
// Cells keep their raw text until read. [Table.Floats] and [Table.Times]
// fail with [ErrColumnNotFound] or [ErrTypeMismatch] instead of guessing.
package dataset
