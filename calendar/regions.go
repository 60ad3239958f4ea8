package calendar

import (
	"sort"
	"time"
)

// =============================================================================
// REGIONS - Autonomous communities and their holiday rules
// =============================================================================

// Region is a first-level region code.
type Region string

// Subregion is a second-level code; only islands carry their own holidays.
type Subregion string

const (
	Andalucia         Region = "AN"
	Aragon            Region = "AR"
	Asturias          Region = "AS"
	IllesBalears      Region = "IB"
	Canarias          Region = "CN"
	Cantabria         Region = "CB"
	CastillaLeon      Region = "CL"
	CastillaLaMancha  Region = "CM"
	Cataluna          Region = "CT"
	ComunitatValencia Region = "VC"
	Extremadura       Region = "EX"
	Galicia           Region = "GA"
	Madrid            Region = "MD"
	Murcia            Region = "MC"
	Navarra           Region = "NC"
	PaisVasco         Region = "PV"
	LaRioja           Region = "RI"
)

const (
	Tenerife      Subregion = "TF"
	GranCanaria   Subregion = "GC"
	LaPalma       Subregion = "LP"
	Lanzarote     Subregion = "LZ"
	Fuerteventura Subregion = "FV"
	LaGomera      Subregion = "GO"
	ElHierro      Subregion = "EH"
)

// RegionInfo describes a region and its holiday rules.
type RegionInfo struct {
	Code       Region
	Name       string
	Rules      []Rule
	Subregions map[Subregion]SubregionInfo
}

// SubregionInfo describes a second-level area.
type SubregionInfo struct {
	Code  Subregion
	Name  string
	Rules []Rule
}

// RequiresSubregion reports whether holidays vary below the region.
func (r RegionInfo) RequiresSubregion() bool { return len(r.Subregions) > 0 }

var (
	holyThursday = easter(-3, "Jueves Santo")
	goodFriday   = easter(-2, "Viernes Santo")
	easterMonday = easter(1, "Lunes de Pascua")
	corpus       = easter(60, "Corpus Christi")
	stJoseph     = fixed(time.March, 19, "San José")
	stJohn       = fixed(time.June, 24, "San Juan")
	stJames      = fixed(time.July, 25, "Santiago Apóstol")
	stStephen    = fixed(time.December, 26, "San Esteban")
)

// national holidays apply to every region.
var national = []Rule{
	fixed(time.January, 1, "Año Nuevo"),
	fixed(time.January, 6, "Epifanía del Señor"),
	goodFriday,
	fixed(time.May, 1, "Fiesta del Trabajo"),
	fixed(time.August, 15, "Asunción de la Virgen"),
	fixed(time.October, 12, "Fiesta Nacional de España"),
	fixed(time.November, 1, "Todos los Santos"),
	fixed(time.December, 6, "Día de la Constitución"),
	fixed(time.December, 8, "Inmaculada Concepción"),
	fixed(time.December, 25, "Natividad del Señor"),
}

var regions = map[Region]RegionInfo{
	Andalucia: {Code: Andalucia, Name: "Andalucía", Rules: []Rule{
		fixed(time.February, 28, "Día de Andalucía"), holyThursday,
	}},
	Aragon: {Code: Aragon, Name: "Aragón", Rules: []Rule{
		holyThursday, fixed(time.April, 23, "San Jorge"),
	}},
	Asturias: {Code: Asturias, Name: "Principado de Asturias", Rules: []Rule{
		holyThursday, fixed(time.September, 8, "Día de Asturias"),
	}},
	IllesBalears: {Code: IllesBalears, Name: "Illes Balears", Rules: []Rule{
		fixed(time.March, 1, "Día de las Illes Balears"), holyThursday, easterMonday, stStephen,
	}},
	Canarias: {Code: Canarias, Name: "Canarias", Rules: []Rule{
		holyThursday, fixed(time.May, 30, "Día de Canarias"),
	}, Subregions: map[Subregion]SubregionInfo{
		Tenerife:      {Code: Tenerife, Name: "Tenerife", Rules: []Rule{fixed(time.February, 2, "Virgen de la Candelaria")}},
		GranCanaria:   {Code: GranCanaria, Name: "Gran Canaria", Rules: []Rule{fixed(time.September, 8, "Virgen del Pino")}},
		LaPalma:       {Code: LaPalma, Name: "La Palma", Rules: []Rule{fixed(time.August, 5, "Virgen de las Nieves")}},
		Lanzarote:     {Code: Lanzarote, Name: "Lanzarote", Rules: []Rule{fixed(time.September, 15, "Virgen de los Dolores")}},
		Fuerteventura: {Code: Fuerteventura, Name: "Fuerteventura", Rules: []Rule{nthWeekday(3, time.Friday, time.September, "Virgen de la Peña")}},
		LaGomera:      {Code: LaGomera, Name: "La Gomera", Rules: []Rule{nthWeekday(1, time.Monday, time.October, "Virgen de Guadalupe")}},
		ElHierro:      {Code: ElHierro, Name: "El Hierro", Rules: []Rule{fixed(time.September, 24, "Virgen de los Reyes")}},
	}},
	Cantabria: {Code: Cantabria, Name: "Cantabria", Rules: []Rule{
		holyThursday, fixed(time.July, 28, "Día de las Instituciones"), fixed(time.September, 15, "La Bien Aparecida"),
	}},
	CastillaLeon: {Code: CastillaLeon, Name: "Castilla y León", Rules: []Rule{
		holyThursday, fixed(time.April, 23, "Día de Castilla y León"),
	}},
	CastillaLaMancha: {Code: CastillaLaMancha, Name: "Castilla-La Mancha", Rules: []Rule{
		holyThursday, fixed(time.May, 31, "Día de Castilla-La Mancha"), corpus,
	}},
	Cataluna: {Code: Cataluna, Name: "Cataluña", Rules: []Rule{
		easterMonday, stJohn, fixed(time.September, 11, "Diada Nacional de Catalunya"), stStephen,
	}},
	ComunitatValencia: {Code: ComunitatValencia, Name: "Comunitat Valenciana", Rules: []Rule{
		stJoseph, easterMonday, stJohn, fixed(time.October, 9, "Día de la Comunitat Valenciana"),
	}},
	Extremadura: {Code: Extremadura, Name: "Extremadura", Rules: []Rule{
		holyThursday, fixed(time.September, 8, "Día de Extremadura"),
	}},
	Galicia: {Code: Galicia, Name: "Galicia", Rules: []Rule{
		holyThursday, fixed(time.May, 17, "Día das Letras Galegas"), stJames,
	}},
	Madrid: {Code: Madrid, Name: "Comunidad de Madrid", Rules: []Rule{
		holyThursday, fixed(time.May, 2, "Fiesta de la Comunidad de Madrid"), stJames,
	}},
	Murcia: {Code: Murcia, Name: "Región de Murcia", Rules: []Rule{
		stJoseph, holyThursday, fixed(time.June, 9, "Día de la Región de Murcia"),
	}},
	Navarra: {Code: Navarra, Name: "Comunidad Foral de Navarra", Rules: []Rule{
		holyThursday, easterMonday, fixed(time.December, 3, "San Francisco Javier"),
	}},
	PaisVasco: {Code: PaisVasco, Name: "País Vasco", Rules: []Rule{
		holyThursday, easterMonday, stJames,
	}},
	LaRioja: {Code: LaRioja, Name: "La Rioja", Rules: []Rule{
		holyThursday, easterMonday, fixed(time.June, 9, "Día de La Rioja"),
	}},
}

// Lookup returns the region for code.
func Lookup(code Region) (RegionInfo, bool) {
	info, ok := regions[code]
	return info, ok
}

// Regions lists every region ordered by code.
func Regions() []RegionInfo {
	list := make([]RegionInfo, 0, len(regions))
	for _, r := range regions {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}

// SortedSubregions lists the subregions of r ordered by code.
func (r RegionInfo) SortedSubregions() []SubregionInfo {
	list := make([]SubregionInfo, 0, len(r.Subregions))
	for _, s := range r.Subregions {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Code < list[j].Code })
	return list
}
