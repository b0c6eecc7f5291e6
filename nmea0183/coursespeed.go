package nmea0183

import (
	"math"

	"github.com/openmarine/navbus/pgn"
)

const earthRadiusMeters = 6371000

// DeriveCourseSpeed computes course over ground (degrees from true north, 0-360)
// and speed over ground (m/s) from two consecutive fixes. Elapsed time comes from
// the fix timestamps, a non-positive interval falls back to 100ms so a repeated
// timestamp never produces an infinite speed.
func DeriveCourseSpeed(prev, cur pgn.NavigationFix) (course float64, speed float64) {
	dt := cur.Time.Sub(prev.Time).Seconds()
	if dt <= 0 {
		dt = 0.1
	}
	distance := haversineMeters(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
	return initialBearing(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude), distance / dt
}

func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func initialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	x := math.Sin(dLambda) * math.Cos(phi2)
	y := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	return math.Mod(math.Atan2(x, y)*180/math.Pi+360, 360)
}
