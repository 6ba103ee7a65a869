package presentation

// Intro is the dashboard's opening paragraph.
const Intro = "This dashboard provides daily updates of the 7-day-incidence (number of cases per 100,000 inhabitants), " +
	"the rolling 7-day-average number of new cases and the raw number of new reported Covid-19 cases. " +
	"You may select the districts to view and compare."

// SourceNote credits the feed.
const SourceNote = "The data are the latest official figures provided by the Berlin government, sourced from berlin.de (LAGeSo)."

// SourcePage is the human-readable page behind the feed.
const SourcePage = "https://www.berlin.de/lageso/gesundheit/infektionsepidemiologie-infektionsschutz/corona/tabelle-bezirke-gesamtuebersicht/"

// Sections returns the heading and explanatory copy for each dashboard section, in display order.
func Sections() []Section {
	return []Section{
		{
			Kind:    KindIncidence,
			Heading: "7 Day Incidence",
			Description: []string{
				"This chart shows the 7 day incidence (# of cases per 100,000 inhabitants) for the selected district(s).",
			},
		},
		{
			Kind:    KindAverage,
			Heading: "New reported cases - Rolling 7 Day Average",
			Description: []string{
				"This chart shows a rolling 7-day-average of newly reported cases for the selected district(s).",
				"This smoothes out the spikes somewhat and makes it easier to identify the real trend in cases.",
			},
		},
		{
			Kind:    KindNewCases,
			Heading: "Newly Reported Cases",
			Description: []string{
				"This chart shows the raw number of new reported cases in the selected district(s).",
				"This will show larger variance and generally be 'noisier' than the 7-day-average chart.",
				"Notice that the numbers tend to dip to near zero on weekends and spike on Mondays. " +
					"This is an artifact of the data collection process and not a real trend: new cases are generally not recorded or reported over weekends.",
			},
		},
	}
}
