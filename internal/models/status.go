package models

// Status is the snapshot served by /api/v1/status and streamed over /ws.
type Status struct {
	Mode        string `json:"mode"`        // Tuning | Clock
	Time        string `json:"time"`        // HH:MM:SS
	Timezone    string `json:"timezone"`    // IANA name
	SyncSource  string `json:"sync_source"` // chrony | none
	ClockSynced bool   `json:"clock_synced"`
	Stratum     int    `json:"stratum,omitempty"`
}
