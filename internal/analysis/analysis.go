// Package analysis inspects the registries and live states to report
// automation coverage, propose new automations, and flag conflicting ones.
package analysis

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/roandegraaf/ha-mcp/internal/haclient"
)

type AreaCoverage struct {
	AreaID      string         `json:"area_id"`
	Name        string         `json:"name"`
	EntityCount int            `json:"entity_count"`
	Domains     map[string]int `json:"domains"`
}

type CoverageReport struct {
	TotalEntities int            `json:"total_entities"`
	Unassigned    int            `json:"unassigned_entities"`
	DomainCounts  map[string]int `json:"domain_counts"`
	Areas         []AreaCoverage `json:"areas"`
}

// Coverage summarizes how entities are spread over areas and domains.
func Coverage(areas []haclient.Area, entities []haclient.Entity) *CoverageReport {
	report := &CoverageReport{
		TotalEntities: len(entities),
		DomainCounts:  map[string]int{},
	}
	byArea := map[string]*AreaCoverage{}
	for _, a := range areas {
		byArea[a.AreaID] = &AreaCoverage{AreaID: a.AreaID, Name: a.Name, Domains: map[string]int{}}
	}
	for _, e := range entities {
		d := domainOf(e.EntityID)
		report.DomainCounts[d]++
		if e.AreaID == "" {
			report.Unassigned++
			continue
		}
		ac, ok := byArea[e.AreaID]
		if !ok {
			ac = &AreaCoverage{AreaID: e.AreaID, Name: e.AreaID, Domains: map[string]int{}}
			byArea[e.AreaID] = ac
		}
		ac.EntityCount++
		ac.Domains[d]++
	}
	for _, ac := range byArea {
		report.Areas = append(report.Areas, *ac)
	}
	sort.Slice(report.Areas, func(i, j int) bool { return report.Areas[i].AreaID < report.Areas[j].AreaID })
	return report
}

type Suggestion struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Entities    []string `json:"entities"`
}

// Suggest applies a fixed rule set over areas, entities and current states
// and returns automation ideas worth proposing to the user.
func Suggest(areas []haclient.Area, entities []haclient.Entity, states []haclient.State) []Suggestion {
	stateOf := map[string]haclient.State{}
	for _, s := range states {
		stateOf[s.EntityID] = s
	}
	areaName := map[string]string{}
	for _, a := range areas {
		areaName[a.AreaID] = a.Name
	}

	type areaEntities struct {
		motion, openings, lights, climate, media []string
	}
	perArea := map[string]*areaEntities{}
	get := func(areaID string) *areaEntities {
		ae, ok := perArea[areaID]
		if !ok {
			ae = &areaEntities{}
			perArea[areaID] = ae
		}
		return ae
	}

	var locks, presence []string
	anyLight := false

	var out []Suggestion
	for _, e := range entities {
		if e.DisabledBy != "" {
			continue
		}
		id := e.EntityID
		st := stateOf[id]
		switch domainOf(id) {
		case "binary_sensor":
			switch deviceClass(st, id) {
			case "motion":
				if e.AreaID != "" {
					get(e.AreaID).motion = append(get(e.AreaID).motion, id)
				}
			case "door", "window", "opening", "garage_door":
				if e.AreaID != "" {
					get(e.AreaID).openings = append(get(e.AreaID).openings, id)
				}
			}
		case "light":
			anyLight = true
			if e.AreaID != "" {
				get(e.AreaID).lights = append(get(e.AreaID).lights, id)
			}
		case "climate":
			if e.AreaID != "" {
				get(e.AreaID).climate = append(get(e.AreaID).climate, id)
			}
		case "media_player":
			if e.AreaID != "" {
				get(e.AreaID).media = append(get(e.AreaID).media, id)
			}
		case "lock":
			locks = append(locks, id)
		case "person", "device_tracker":
			presence = append(presence, id)
		case "sensor":
			if deviceClass(st, id) == "battery" {
				if v, err := strconv.ParseFloat(st.State, 64); err == nil && v < 20 {
					out = append(out, Suggestion{
						Name:        "Low battery alert for " + id,
						Description: fmt.Sprintf("Battery at %s%%. Notify when it drops below 20%% so the device is not lost silently.", st.State),
						Entities:    []string{id},
					})
				}
			}
		}
	}

	areaIDs := make([]string, 0, len(perArea))
	for id := range perArea {
		areaIDs = append(areaIDs, id)
	}
	sort.Strings(areaIDs)

	var haveClimatePresence bool
	for _, areaID := range areaIDs {
		ae := perArea[areaID]
		name := areaName[areaID]
		if name == "" {
			name = areaID
		}
		if len(ae.motion) > 0 && len(ae.lights) > 0 {
			out = append(out, Suggestion{
				Name:        "Motion-activated lighting in " + name,
				Description: "Turn the lights on when motion is detected and off after a few minutes of inactivity.",
				Entities:    append(append([]string{}, ae.motion...), ae.lights...),
			})
		}
		if len(ae.openings) > 0 && len(ae.climate) > 0 {
			out = append(out, Suggestion{
				Name:        "Pause climate when " + name + " is open",
				Description: "Stop heating or cooling while a door or window stays open, resume when it closes.",
				Entities:    append(append([]string{}, ae.openings...), ae.climate...),
			})
		}
		if len(ae.media) > 0 && len(ae.lights) > 0 {
			out = append(out, Suggestion{
				Name:        "Media lighting scene in " + name,
				Description: "Dim the lights when playback starts and restore them when it stops.",
				Entities:    append(append([]string{}, ae.media...), ae.lights...),
			})
		}
		if len(presence) > 0 && len(ae.climate) > 0 {
			haveClimatePresence = true
		}
	}

	for _, lock := range locks {
		out = append(out, Suggestion{
			Name:        "Auto-lock " + lock,
			Description: "Lock automatically after 10 minutes unlocked, and send a notification whenever it is unlocked.",
			Entities:    []string{lock},
		})
	}
	if haveClimatePresence {
		out = append(out, Suggestion{
			Name:        "Presence-based climate",
			Description: "Lower the target temperature when everyone is away and restore it on arrival.",
			Entities:    presence,
		})
	}
	if anyLight {
		out = append(out, Suggestion{
			Name:        "Sunset lighting schedule",
			Description: "Turn selected lights on at sunset and off at a fixed time at night.",
		})
	}
	return out
}

// cardTypeFor maps an entity domain to the Lovelace card type that renders
// it best. Domains without an entry share a grouped entities card.
var cardTypeFor = map[string]string{
	"light":         "light",
	"climate":       "thermostat",
	"sensor":        "glance",
	"binary_sensor": "entity",
	"camera":        "picture-entity",
	"media_player":  "media-control",
	"weather":       "weather-forecast",
	"person":        "entity",
}

// SuggestDashboard proposes a Lovelace config with one view per area and
// card types chosen by domain. targetAreaID narrows the layout to one area;
// entities without an area land in a trailing Other view.
func SuggestDashboard(areas []haclient.Area, entities []haclient.Entity, targetAreaID string) map[string]any {
	byArea := map[string][]haclient.Entity{}
	var unassigned []haclient.Entity
	for _, e := range entities {
		if e.DisabledBy != "" {
			continue
		}
		if e.AreaID == "" {
			unassigned = append(unassigned, e)
			continue
		}
		byArea[e.AreaID] = append(byArea[e.AreaID], e)
	}

	var views []map[string]any
	for _, area := range areas {
		if targetAreaID != "" && area.AreaID != targetAreaID {
			continue
		}
		cards := areaCards(area.Name, byArea[area.AreaID])
		if len(cards) == 0 {
			continue
		}
		views = append(views, map[string]any{
			"title": area.Name,
			"path":  strings.ReplaceAll(area.AreaID, " ", "_"),
			"cards": cards,
		})
	}

	if len(unassigned) > 0 && targetAreaID == "" {
		if cards := areaCards("Other", unassigned); len(cards) > 0 {
			views = append(views, map[string]any{
				"title": "Other",
				"path":  "other",
				"cards": cards,
			})
		}
	}

	return map[string]any{
		"title": "Home",
		"views": views,
	}
}

func areaCards(areaName string, entities []haclient.Entity) []map[string]any {
	byDomain := map[string][]string{}
	for _, e := range entities {
		byDomain[domainOf(e.EntityID)] = append(byDomain[domainOf(e.EntityID)], e.EntityID)
	}
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	var cards []map[string]any
	for _, domain := range domains {
		ids := byDomain[domain]
		switch cardTypeFor[domain] {
		case "glance":
			cards = append(cards, map[string]any{
				"type":     "glance",
				"title":    areaName + " Sensors",
				"entities": ids,
			})
		case "picture-entity":
			for _, id := range ids {
				cards = append(cards, map[string]any{
					"type":         "picture-entity",
					"entity":       id,
					"camera_image": id,
				})
			}
		case "":
			cards = append(cards, map[string]any{
				"type":     "entities",
				"title":    areaName + " " + titleWords(strings.ReplaceAll(domain, "_", " ")),
				"entities": ids,
			})
		default:
			for _, id := range ids {
				cards = append(cards, map[string]any{
					"type":   cardTypeFor[domain],
					"entity": id,
				})
			}
		}
	}
	return cards
}

type Conflict struct {
	Type        string   `json:"type"` // same_trigger, opposing_actions, duplicate
	Automations []string `json:"automations"`
	Detail      string   `json:"detail"`
}

// DetectConflicts compares stored automation configs pairwise: identical
// configs are duplicates, identical triggers are flagged, and same-trigger
// automations that drive one entity in opposite directions are conflicts.
func DetectConflicts(automations map[string]map[string]any) []Conflict {
	ids := make([]string, 0, len(automations))
	for id := range automations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []Conflict
	byTrigger := map[string][]string{}
	byConfig := map[string][]string{}
	for _, id := range ids {
		cfg := automations[id]
		byTrigger[canonical(cfg["trigger"])] = append(byTrigger[canonical(cfg["trigger"])], id)
		byConfig[canonical(cfg)] = append(byConfig[canonical(cfg)], id)
	}

	for _, group := range byConfig {
		if len(group) > 1 {
			out = append(out, Conflict{
				Type:        "duplicate",
				Automations: group,
				Detail:      "identical configuration",
			})
		}
	}

	triggers := make([]string, 0, len(byTrigger))
	for t := range byTrigger {
		triggers = append(triggers, t)
	}
	sort.Strings(triggers)
	for _, t := range triggers {
		group := byTrigger[t]
		if len(group) < 2 || t == canonical(nil) {
			continue
		}
		out = append(out, Conflict{
			Type:        "same_trigger",
			Automations: group,
			Detail:      "multiple automations fire on the same trigger",
		})
		// Opposing service calls on the same entity within the group.
		onBy := map[string][]string{}
		offBy := map[string][]string{}
		for _, id := range group {
			for entity, dir := range serviceDirections(automations[id]["action"]) {
				if dir == "on" {
					onBy[entity] = append(onBy[entity], id)
				} else {
					offBy[entity] = append(offBy[entity], id)
				}
			}
		}
		for entity, onIDs := range onBy {
			if offIDs, ok := offBy[entity]; ok {
				out = append(out, Conflict{
					Type:        "opposing_actions",
					Automations: dedupe(append(append([]string{}, onIDs...), offIDs...)),
					Detail:      "same trigger turns " + entity + " both on and off",
				})
			}
		}
	}
	return out
}

// serviceDirections maps entity ids touched by turn_on/turn_off service
// calls in an action block to "on" or "off".
func serviceDirections(action any) map[string]string {
	out := map[string]string{}
	for _, step := range asList(action) {
		m, ok := step.(map[string]any)
		if !ok {
			continue
		}
		svc, _ := m["service"].(string)
		if svc == "" {
			svc, _ = m["action"].(string)
		}
		var dir string
		switch {
		case strings.HasSuffix(svc, ".turn_on"):
			dir = "on"
		case strings.HasSuffix(svc, ".turn_off"):
			dir = "off"
		default:
			continue
		}
		for _, entity := range targetEntities(m) {
			out[entity] = dir
		}
	}
	return out
}

func targetEntities(step map[string]any) []string {
	var out []string
	collect := func(v any) {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case []any:
			for _, e := range t {
				if s, ok := e.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	collect(step["entity_id"])
	if target, ok := step["target"].(map[string]any); ok {
		collect(target["entity_id"])
	}
	if data, ok := step["data"].(map[string]any); ok {
		collect(data["entity_id"])
	}
	return out
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func canonical(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func deviceClass(st haclient.State, entityID string) string {
	if dc, ok := st.Attributes["device_class"].(string); ok {
		return dc
	}
	// Fall back on naming when the state is unknown.
	switch {
	case strings.Contains(entityID, "motion"):
		return "motion"
	case strings.Contains(entityID, "door"):
		return "door"
	case strings.Contains(entityID, "window"):
		return "window"
	case strings.Contains(entityID, "battery"):
		return "battery"
	}
	return ""
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func domainOf(entityID string) string {
	if i := strings.IndexByte(entityID, '.'); i > 0 {
		return entityID[:i]
	}
	return entityID
}
