// Package polyline implements the Google encoded-polyline format used to
// exchange route geometry with mapping providers, plus geometric helpers for
// working with the decoded point sequences.
// Format reference: https://developers.google.com/maps/documentation/utilities/polylinealgorithm
package polyline

import (
	"math"

	"github.com/golang/geo/s2"
)

// Point is a geographic coordinate. Latitude is in [-90, 90], longitude in
// [-180, 180].
type Point struct {
	Lat float64
	Lng float64
}

// Encode encodes an ordered point sequence into a polyline string at the
// standard 1e-5 precision. An empty sequence encodes to "".
func Encode(points []Point) string {
	if len(points) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(points)*4)
	prevLat := 0
	prevLng := 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lng := int(math.Round(p.Lng * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return string(encoded)
}

// encodeValue appends one signed delta as zig-zag encoded 5-bit groups,
// continuation bit 0x20, ASCII offset 63.
func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	buf = append(buf, byte(value)+63)

	return buf
}

// Decode decodes a polyline string into its point sequence. "" decodes to nil.
// The input is assumed to come from a conformant encoder; malformed strings
// produce unspecified points.
func Decode(encoded string) []Point {
	if encoded == "" {
		return nil
	}

	var points []Point
	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		latDelta, next := decodeValue(encoded, index)
		index = next
		lat += latDelta

		lngDelta, next := decodeValue(encoded, index)
		index = next
		lng += lngDelta

		points = append(points, Point{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return points
}

// decodeValue reads one little-endian group of 5-bit chunks starting at index
// and returns the signed delta plus the next read position.
func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

const earthRadiusMeters = 6371000

// DistanceMeters returns the great-circle distance between two points.
func DistanceMeters(a, b Point) float64 {
	la := s2.LatLngFromDegrees(a.Lat, a.Lng)
	lb := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return la.Distance(lb).Radians() * earthRadiusMeters
}

// Length returns the total great-circle length of the polyline in meters.
func Length(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(points); i++ {
		total += DistanceMeters(points[i-1], points[i])
	}
	return total
}

// SampleEvery returns points spaced approximately intervalMeters apart along
// the polyline. The first and last points are always included. A non-positive
// interval returns the input unchanged.
func SampleEvery(points []Point, intervalMeters float64) []Point {
	if len(points) == 0 {
		return nil
	}
	if intervalMeters <= 0 {
		return points
	}

	sampled := []Point{points[0]}
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		start := points[i-1]
		segment := DistanceMeters(start, points[i])

		for accumulated+segment >= intervalMeters {
			remaining := intervalMeters - accumulated
			fraction := remaining / segment

			next := Point{
				Lat: start.Lat + fraction*(points[i].Lat-start.Lat),
				Lng: start.Lng + fraction*(points[i].Lng-start.Lng),
			}
			sampled = append(sampled, next)

			start = next
			segment -= remaining
			accumulated = 0
		}

		accumulated += segment
	}

	last := points[len(points)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	return sampled
}

// BearingDegrees returns the initial compass bearing from a to b in degrees,
// normalized to [0, 360).
func BearingDegrees(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}
