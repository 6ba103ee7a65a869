// Package domain models the Berlin per-district daily case table and the
// rolling statistics derived from it.
//
// # Data Source
//
// The Berlin State Office for Health and Social Affairs (LAGeSo) publishes a
// semicolon-delimited CSV with one row per reporting date and one column per
// district, at
// https://www.berlin.de/lageso/_assets/gesundheit/publikationen/corona/meldedatum_bezirk.csv.
// The table is fetched fresh on every dashboard run; nothing is cached or
// persisted between runs.
//
// # Feed Conventions
//
// Header:
//
//	Datum;Mitte;Friedrichshain-Kreuzberg;Pankow;...;Reinickendorf
//	The first column is the reporting date. Every other column is a district.
//	District names may carry umlauts ("Neukölln"); they are transliterated to
//	the catalog spelling ("Neukoelln") by [CanonicalColumn].
//
// Dates:
//
//	ISO "2021-01-07" or German "07.01.2021". Any other value aborts
//	normalization, because rolling windows are order- and gap-sensitive.
//
// Counts:
//
//	Non-negative integers of newly reported cases for that district and day.
//
// # Entity Catalog
//
// The catalog is closed: twelve districts plus the synthetic "All Berlin"
// aggregate, each with its population in hundred-thousands. Incidence is the
// rolling 7-day sum divided by that factor, i.e. cases per 100,000
// inhabitants. The aggregate is computed over the catalog districts only; a
// feed column outside the catalog is rejected rather than summed.
//
// # Rolling Windows
//
// Rolling sums and averages use a trailing window of [RollingWindow] rows
// (the current date and the six before it). The first six rows of every
// series have no defined rolling value; they are reported as invalid
// [NullFloat] values, never as zero.
package domain
