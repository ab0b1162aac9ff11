// Package viz renders recorded runs for the terminal.
//
//   - [ResultsTable]: one row per primitive with its termination reason
//   - [MetricsPanel]: run metrics in a bordered panel
//   - [PlotError], [PlotHeading] and [PlotCommands]: asciigraph line charts
//   - [PathMap]: the driven XY path on a Braille [Canvas]
package viz
