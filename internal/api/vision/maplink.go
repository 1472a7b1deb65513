package vision

import "fmt"

// DefaultZoom is the zoom level used for landmark map links.
const DefaultZoom = 15

// MapLink builds a Google Maps link pointing at the given coordinates.
// The URL pattern is fixed; clients deep-link it directly.
func MapLink(latitude, longitude float64, zoom int) string {
	return fmt.Sprintf("https://maps.google.com/maps?z=%d&t=m&q=loc:%v+%v", zoom, latitude, longitude)
}
