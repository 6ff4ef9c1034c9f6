// Package domain models HURDAT2 tropical cyclone best-track data and the
// climatological statistics and rankings derived from it.
//
// # Data Source
//
// HURDAT2 is the revised hurricane database maintained by the National
// Hurricane Center, published per basin at https://www.nhc.noaa.gov/data/.
// Each storm opens with a header line followed by one line per observation.
// The adapter/hurdat2 package parses the file into a [Builder]; the
// resulting [Record] is frozen and safe for concurrent readers.
//
// # HURDAT2 Conventions
//
// Identifiers:
//
//	"AL092005" = basin AL (Atlantic), storm number 09, season 2005.
//	The season of a storm is always the year in its identifier, even when
//	the track crosses into the next calendar year.
//
// Status codes:
//
//	TD, TS, HU  tropical depression, storm, hurricane
//	SD, SS      subtropical depression, storm
//	EX          extratropical cyclone
//	LO, WV, DB  low, tropical wave, disturbance
//
//	Only TD, TS, HU, SD and SS are tropical cyclones.
//
// Record identifiers (marker column):
//
//	L landfall, W max wind, P min pressure, I intensity peak, C closest
//	approach, S status change, G genesis, T extra track detail.
//
// Missing values:
//
//	-999 marks an unknown pressure or wind radius. Unknown stays distinct
//	from zero: an unknown pressure never becomes a minimum.
//
// # Derived Metrics
//
// Energy indices sum the squared wind (kt²) at synoptic times (00, 06, 12,
// 18 UTC) only:
//
//	ACE   status SS, TS or HU with wind ≥ 34 kt
//	HDP   status HU with wind ≥ 64 kt
//	MHDP  status HU with wind ≥ 96 kt
//
// Track distances and durations are accumulated per consecutive pair of
// observations and credited to the tier held by the earlier point of the
// pair. Distances are great-circle (haversine) in nautical miles.
//
// # Rankings
//
// Rankings keep every unit whose value is among the first N distinct values,
// so ties can return more than N rows. See [Ranker].
package domain
