package domain

// Indicator is a World Bank development metric offered by the dashboard.
type Indicator struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// World Bank indicator codes.
const (
	IndicatorGDPPerCapita      = "NY.GDP.PCAP.CD"
	IndicatorLifeExpectancy    = "SP.DYN.LE00.IN"
	IndicatorUnemployment      = "SL.UEM.TOTL.ZS"
	IndicatorCO2Emissions      = "EN.ATM.CO2E.PC"
	IndicatorEducation         = "SE.PRM.NENR"
	IndicatorPopulation        = "SP.POP.TOTL"
	IndicatorHealthExpenditure = "SH.XPD.CHEX.GD.ZS"
	IndicatorInternetUsers     = "IT.NET.USER.ZS"
)

// Indicators lists the catalog in display order.
var Indicators = []Indicator{
	{Code: IndicatorGDPPerCapita, Label: "GDP per Capita"},
	{Code: IndicatorLifeExpectancy, Label: "Life Expectancy"},
	{Code: IndicatorEducation, Label: "Education Index"},
	{Code: IndicatorUnemployment, Label: "Unemployment Rate"},
	{Code: IndicatorCO2Emissions, Label: "CO2 Emissions per Capita"},
	{Code: IndicatorHealthExpenditure, Label: "Health Expenditure"},
	{Code: IndicatorPopulation, Label: "Population"},
	{Code: IndicatorInternetUsers, Label: "Internet Users"},
}

// IndicatorLabel returns the display label for a code, or "Indicator" when the
// code is outside the catalog.
func IndicatorLabel(code string) string {
	for _, ind := range Indicators {
		if ind.Code == code {
			return ind.Label
		}
	}
	return "Indicator"
}
