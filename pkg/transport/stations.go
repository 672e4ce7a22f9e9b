package transport

// majorStations is the fallback station table for postcodes outside TfL
// coverage. Coordinates are station entrances from OpenStreetMap.
var majorStations = []struct {
	name     string
	code     string
	lat, lon float64
}{
	{"Manchester Piccadilly", "MAN", 53.4773, -2.2301},
	{"Manchester Victoria", "MCV", 53.4875, -2.2426},
	{"Manchester Oxford Road", "MCO", 53.4710, -2.2423},
	{"Ashton-under-Lyne", "AHN", 53.4903, -2.0935},
	{"Stalybridge", "SYB", 53.4846, -2.0620},
	{"Birmingham New Street", "BHM", 52.4776, -1.8991},
	{"Birmingham Moor Street", "BMO", 52.4791, -1.8925},
	{"Leeds", "LDS", 53.7959, -1.5494},
	{"Liverpool Lime Street", "LIV", 53.4073, -2.9778},
	{"Sheffield", "SHF", 53.3782, -1.4620},
	{"Bristol Temple Meads", "BRI", 51.4491, -2.5803},
	{"Newcastle", "NCL", 54.9683, -1.6170},
	{"Glasgow Central", "GLC", 55.8590, -4.2580},
	{"Edinburgh Waverley", "EDB", 55.9521, -3.1903},
	{"Cardiff Central", "CDF", 51.4759, -3.1791},
	{"Nottingham", "NOT", 52.9471, -1.1472},
	{"Leicester", "LEI", 52.6314, -1.1252},
	{"Coventry", "COV", 52.4008, -1.5135},
	{"Reading", "RDG", 51.4592, -0.9716},
	{"Oxford", "OXF", 51.7535, -1.2700},
	{"Cambridge", "CBG", 52.1940, 0.1372},
}
