// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

import (
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/tzneal/coordconv"
)

func (llh *PosLLH) latLng() s2.LatLng {
	return s2.LatLng{
		Lat: s1.Angle(llh.Lat),
		Lng: s1.Angle(llh.Lon),
	}
}

// UTM coordinate of the position (zone chosen automatically)
func (llh *PosLLH) ToUTM() (coordconv.UTMCoord, error) {
	utm, err := coordconv.DefaultUTMConverter.ConvertFromGeodetic(llh.latLng(), 0)
	if err != nil {
		return coordconv.UTMCoord{}, fmt.Errorf("UTM conversion failed for %s: %w", llh, err)
	}
	return utm, nil
}

// MGRS string of the position, precision 1 (10 km) to 5 (1 m)
func (llh *PosLLH) ToMGRS(precision int) (string, error) {
	mgrs, err := coordconv.DefaultMGRSConverter.ConvertFromGeodetic(llh.latLng(), precision)
	if err != nil {
		return "", fmt.Errorf("MGRS conversion failed for %s: %w", llh, err)
	}
	return fmt.Sprintf("%s", mgrs), nil
}

// Short UTM notation like "54 N 388456 3949680" (zone, hemisphere, easting, northing)
func UTMString(utm coordconv.UTMCoord) string {
	h := 'N'
	if utm.Hemisphere == coordconv.HemisphereSouth {
		h = 'S'
	}
	return fmt.Sprintf("%d %c %.0f %.0f", utm.Zone, h, utm.Easting, utm.Northing)
}
