// Package scraper fetches NHL season results pages and parses their game tables.
//
// A season page at <base>/leagues/NHL_<year>_games.html carries a regular season
// table (id "games") and, once the playoffs have started, a playoff table
// (id "games_playoffs"). Every cell is keyed by its data-stat attribute, so rows
// become games without any knowledge of the column set. Secondary tables that the
// site ships inside HTML comments are parsed too.
//
// Pages are fetched over plain HTTP by Scraper, or rendered in headless Chrome by
// BrowserFetcher when the site serves an interstitial to non-browser clients.
package scraper
