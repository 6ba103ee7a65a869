package domain

import "strings"

// AllBerlin is the synthetic city-wide aggregate entity.
const AllBerlin = "All Berlin"

// Entity is a catalog entry: a district (or the aggregate) and its population
// in hundred-thousands.
type Entity struct {
	Name       string  `json:"name"`
	Population float64 `json:"population"`
}

// catalog lists entities in the order they are offered for selection.
var catalog = []Entity{
	{Name: "Lichtenberg", Population: 2.91452},
	{Name: AllBerlin, Population: 37.54418},
	{Name: "Mitte", Population: 3.84172},
	{Name: "Charlottenburg-Wilmersdorf", Population: 3.42332},
	{Name: "Friedrichshain-Kreuzberg", Population: 2.89762},
	{Name: "Neukoelln", Population: 3.29691},
	{Name: "Tempelhof-Schoeneberg", Population: 3.51644},
	{Name: "Pankow", Population: 4.07765},
	{Name: "Reinickendorf", Population: 2.65225},
	{Name: "Steglitz-Zehlendorf", Population: 3.08697},
	{Name: "Spandau", Population: 2.43977},
	{Name: "Marzahn-Hellersdorf", Population: 2.68548},
	{Name: "Treptow-Koepenick", Population: 2.71153},
}

var populationByName = func() map[string]float64 {
	m := make(map[string]float64, len(catalog))
	for _, e := range catalog {
		m[e.Name] = e.Population
	}
	return m
}()

// Catalog returns a copy of the entity catalog in selection order.
func Catalog() []Entity {
	out := make([]Entity, len(catalog))
	copy(out, catalog)
	return out
}

// EntityNames returns the catalog names in selection order.
func EntityNames() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// Districts returns the catalog names excluding the aggregate.
func Districts() []string {
	names := make([]string, 0, len(catalog)-1)
	for _, e := range catalog {
		if e.Name != AllBerlin {
			names = append(names, e.Name)
		}
	}
	return names
}

// Population returns the population factor for an entity.
func Population(name string) (float64, bool) {
	p, ok := populationByName[name]
	return p, ok
}

// IsDistrict reports whether name is a catalog district (not the aggregate).
func IsDistrict(name string) bool {
	_, ok := populationByName[name]
	return ok && name != AllBerlin
}

var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue",
	"Ä", "Ae", "Ö", "Oe", "Ü", "Ue",
	"ß", "ss",
)

// CanonicalColumn trims a feed column name and transliterates umlauts so it
// can be joined against the catalog, e.g. "Neukölln " -> "Neukoelln".
func CanonicalColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return umlauts.Replace(strings.TrimSpace(name))
}
