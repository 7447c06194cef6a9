// Package game provides the data model for scraped NHL game results.
//
// A Game is an ordered, schema-less mapping of hockey-reference column names
// (the data-stat attribute of each cell) to their text, plus an optional boxscore
// link. Games are grouped per season into SeasonGames and per run into an Archive.
// Archive.Add and Fold aggregate season results without any I/O, so the folding
// logic can be tested on its own.
package game
