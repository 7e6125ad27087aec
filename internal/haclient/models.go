package haclient

// Registry and state models as Home Assistant serializes them.

type Device struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameByUser    string   `json:"name_by_user,omitempty"`
	Model         string   `json:"model,omitempty"`
	Manufacturer  string   `json:"manufacturer,omitempty"`
	AreaID        string   `json:"area_id,omitempty"`
	ConfigEntries []string `json:"config_entries,omitempty"`
	SWVersion     string   `json:"sw_version,omitempty"`
	HWVersion     string   `json:"hw_version,omitempty"`
	ViaDeviceID   string   `json:"via_device_id,omitempty"`
	DisabledBy    string   `json:"disabled_by,omitempty"`
}

type Entity struct {
	EntityID       string   `json:"entity_id"`
	DeviceID       string   `json:"device_id,omitempty"`
	AreaID         string   `json:"area_id,omitempty"`
	Platform       string   `json:"platform,omitempty"`
	Name           string   `json:"name,omitempty"`
	OriginalName   string   `json:"original_name,omitempty"`
	DisabledBy     string   `json:"disabled_by,omitempty"`
	EntityCategory string   `json:"entity_category,omitempty"`
	Icon           string   `json:"icon,omitempty"`
	UniqueID       string   `json:"unique_id,omitempty"`
	Labels         []string `json:"labels,omitempty"`
}

type Area struct {
	AreaID  string   `json:"area_id"`
	Name    string   `json:"name"`
	FloorID string   `json:"floor_id,omitempty"`
	Icon    string   `json:"icon,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
	Labels  []string `json:"labels,omitempty"`
	Picture string   `json:"picture,omitempty"`
}

type Floor struct {
	FloorID string   `json:"floor_id"`
	Name    string   `json:"name"`
	Level   *int     `json:"level,omitempty"`
	Icon    string   `json:"icon,omitempty"`
	Aliases []string `json:"aliases,omitempty"`
}

type Label struct {
	LabelID     string `json:"label_id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type State struct {
	EntityID    string         `json:"entity_id"`
	State       string         `json:"state"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	LastChanged string         `json:"last_changed,omitempty"`
	LastUpdated string         `json:"last_updated,omitempty"`
}

// ValidationResult is the outcome of a configuration dry-run, either from
// the validate_config websocket command or the core check_config endpoint.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

type Dashboard struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URLPath      string `json:"url_path,omitempty"`
	Icon         string `json:"icon,omitempty"`
	Mode         string `json:"mode,omitempty"`
	RequireAdmin bool   `json:"require_admin,omitempty"`
}

type Blueprint struct {
	Path     string         `json:"path"`
	Domain   string         `json:"domain,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}
