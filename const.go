// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.10.19
//

package pvtnmea

const (
	PI = 3.1415926535897932  // Pi
	Re = 6378137.0           // Earth's radius [m]
	Fe = 1.0 / 298.257223563 // Earth's flattening
	LS = 18                  // Leap seconds (default when no broadcast parameters are available)
)

// WGS84 ellipsoid
const (
	WGS_AXIS_A = Re                  // Semi-major axis [m]
	WGS_AXIS_B = 6356752.3142        // Semi-minor axis [m]
	WGS_E1_SQR = 0.00669437999014132 // First eccentricity squared
	WGS_E2_SQR = 0.00673949674227643 // Second eccentricity squared
)

// Time constants
const (
	MS_PER_DAY    = 86400000    // Milliseconds in a day
	MS_PER_WEEK   = 604800000   // Milliseconds in a week
	GLO_OFFSET_MS = 10800000    // GLONASS day starts at 03:00 UTC
	GPS_GLO_WEEKS = 208         // Weeks from GPS epoch (1980/1/6) to 1984/1/1
	DAYS_4YEARS   = 366 + 365*3 // Days in a 4 year leap cycle
)

// Calibration thresholds
const (
	POLE_THRES      = 1e-10         // Horizontal distance below which the position is on the polar axis [m]
	ROT_THRES       = 1e-5          // Distance below which the local rotation is not defined [m]
	GSV_EL_MASK     = 0.00872664626 // Elevation mask for in-view satellites (0.5 deg) [rad]
	CN0_TRACK_THRES = 1000          // CN0 above which a satellite is in track [0.01 dB-Hz]
	DOP_INVALID     = 99.0          // DOP value when quality cannot be determined
	MAX_GSV_SATS    = 36            // 9 GSV sentences with 4 satellites each
	MAX_GSA_SATS    = 12            // Satellite ID fields in one GSA sentence
	MS2KMH          = 3.6           // [m/s] to [km/h]
	MS2KNOT         = 3600.0 / 1852 // [m/s] to [knot]
)
