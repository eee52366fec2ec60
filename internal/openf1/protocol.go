// Package openf1 provides the client and wire types for the OpenF1 HTTP API.
package openf1

// Driver is one driver-session row returned by GET /drivers. The same driver
// appears once per session the response covers.
type Driver struct {
	DriverNumber  int     `json:"driver_number"`
	BroadcastName string  `json:"broadcast_name"`
	FullName      string  `json:"full_name"`
	FirstName     string  `json:"first_name,omitempty"`
	LastName      string  `json:"last_name,omitempty"`
	TeamName      string  `json:"team_name"`
	NameAcronym   string  `json:"name_acronym"`
	HeadshotURL   *string `json:"headshot_url"`
	TeamColour    string  `json:"team_colour"` // hex, no leading '#'
	CountryCode   string  `json:"country_code"`
	SessionKey    int     `json:"session_key,omitempty"`
	MeetingKey    int     `json:"meeting_key,omitempty"`
}

// Headshot returns the headshot URL, or "" when upstream has none.
func (d Driver) Headshot() string {
	if d.HeadshotURL == nil {
		return ""
	}
	return *d.HeadshotURL
}

// StringPtr returns a pointer to s. Convenience for building fixtures.
func StringPtr(s string) *string { return &s }
