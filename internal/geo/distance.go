package geo

import (
	"fmt"
	"math"

	"github.com/alexanderramin/itinera/internal/domain"
)

const (
	earthRadiusM = 6371000.0

	// Speeds in meters per minute.
	walkingSpeed = 80.0
	transitSpeed = 200.0
	taxiSpeed    = 400.0
	mixedSpeed   = 150.0

	transitOverheadMin = 10
	taxiOverheadMin    = 5
	mixedOverheadMin   = 5

	shortestTaxiThresholdM = 3000.0
	balancedTransitM       = 5000.0
	scenicWalkFactor       = 1.5

	DefaultMaxWalkMinutes = 20
)

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b domain.Coordinates) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// SelectMode picks a travel mode for a leg of the given length.
func SelectMode(distanceM float64, maxWalkMinutes int, pref domain.CommutePreference) domain.TravelMode {
	if maxWalkMinutes <= 0 {
		maxWalkMinutes = DefaultMaxWalkMinutes
	}
	walkLimit := float64(maxWalkMinutes) * walkingSpeed
	if pref == domain.CommuteScenic {
		walkLimit *= scenicWalkFactor
	}
	if distanceM <= walkLimit {
		return domain.ModeWalking
	}

	switch pref {
	case domain.CommuteShortest:
		if distanceM > shortestTaxiThresholdM {
			return domain.ModeTaxi
		}
		return domain.ModeTransit
	default:
		if distanceM > balancedTransitM {
			return domain.ModeTransit
		}
		return domain.ModeMixed
	}
}

// EstimateDuration returns whole minutes, rounded up, for a leg.
func EstimateDuration(distanceM float64, mode domain.TravelMode) int {
	var minutes float64
	switch mode {
	case domain.ModeWalking:
		minutes = distanceM / walkingSpeed
	case domain.ModeTransit:
		minutes = distanceM/transitSpeed + transitOverheadMin
	case domain.ModeTaxi:
		minutes = distanceM/taxiSpeed + taxiOverheadMin
	case domain.ModeMixed:
		minutes = distanceM/mixedSpeed + mixedOverheadMin
	}
	return int(math.Ceil(minutes))
}

// Estimate builds the commute edge between two locations.
func Estimate(from, to domain.Coordinates, maxWalkMinutes int, pref domain.CommutePreference) domain.CommuteInfo {
	d := Haversine(from, to)
	mode := SelectMode(d, maxWalkMinutes, pref)
	info := domain.CommuteInfo{
		DistanceMeters:  math.Round(d),
		DurationMinutes: EstimateDuration(d, mode),
		Mode:            mode,
	}
	switch mode {
	case domain.ModeTransit:
		info.TransitDetail = fmt.Sprintf("public transit, %.1f km", d/1000)
	case domain.ModeTaxi:
		info.TransitDetail = fmt.Sprintf("taxi, %.1f km", d/1000)
	case domain.ModeMixed:
		info.TransitDetail = fmt.Sprintf("walk + short ride, %.1f km", d/1000)
	}
	return info
}
