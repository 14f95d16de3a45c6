package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

// Defect is a reported anomaly as accepted by the inspection API.
type Defect struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location,omitempty"`
}

// FuelLevels are the tank and battery levels reported by the driver, in percent.
type FuelLevels struct {
	Fuel    *float64 `json:"fuel,omitempty"`
	AdBlue  *float64 `json:"adblue,omitempty"`
	Battery *float64 `json:"battery,omitempty"`
}

// Inspection is the body posted to /inspections.
type Inspection struct {
	VehicleID      string     `json:"vehicle_id"`
	InspectionType string     `json:"inspection_type"`
	Mileage        float64    `json:"mileage"`
	FuelLevels     FuelLevels `json:"fuel_levels"`
	Defects        []Defect   `json:"defects"`
}

// VehicleState tracks a simulated vehicle between inspections.
type VehicleState struct {
	VehicleID  string
	Type       string // "ICE" or "EV"
	Mileage    float64
	SpeedKmh   float64
	FuelPct    float64
	AdBluePct  float64
	BatteryPct float64
}

// Defect catalogue drivers pick from, mixing English and French wording.
var catalogue = []Defect{
	{Category: "mechanical", Description: "Brake failure", Location: "front axle"},
	{Category: "mechanical", Description: "Bruit anormal au freinage"},
	{Category: "tires", Description: "Pneu avant usé", Location: "front left"},
	{Category: "tires", Description: "Flat tire", Location: "rear right"},
	{Category: "lights", Description: "Feu stop arrière HS"},
	{Category: "lights", Description: "Front indicator dim"},
	{Category: "electrical", Description: "Battery warning light on"},
	{Category: "body", Description: "Petite rayure sur la porte", Location: "driver door"},
	{Category: "body", Description: "Cracked windshield"},
	{Category: "chassis", Description: "Rust on frame rail"},
	{Category: "interior", Description: "Air conditioning not working"},
	{Category: "interior", Description: "Seat cover torn"},
}

var inspectionTypes = []string{"pre_trip", "post_trip", "periodic"}

var authToken string

func authorizedPost(url string, contentType string, body *bytes.Buffer) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	client := &http.Client{Timeout: 10 * time.Second}
	return client.Do(req)
}

func newVehicleState(rng *rand.Rand, id int) *VehicleState {
	return &VehicleState{
		VehicleID:  fmt.Sprintf("vehicle-%d", id),
		Type:       []string{"ICE", "EV"}[rng.Intn(2)],
		Mileage:    5000 + rng.Float64()*95000,
		SpeedKmh:   30 + rng.Float64()*30,
		FuelPct:    50 + rng.Float64()*50,
		AdBluePct:  50 + rng.Float64()*50,
		BatteryPct: 50 + rng.Float64()*50,
	}
}

// drive advances the vehicle by hours of driving and consumes energy.
func drive(rng *rand.Rand, s *VehicleState, hours float64) {
	s.SpeedKmh += (rng.Float64()*2 - 1) * 1.5
	if s.SpeedKmh < 15 {
		s.SpeedKmh = 15
	}
	if s.SpeedKmh > 90 {
		s.SpeedKmh = 90
	}

	km := s.SpeedKmh * hours
	s.Mileage += km
	if s.Type == "ICE" {
		s.FuelPct -= km * 0.4
		if s.FuelPct < 5 {
			s.FuelPct = 100
		}
		s.AdBluePct -= km * 0.05
		if s.AdBluePct < 5 {
			s.AdBluePct = 100
		}
	} else {
		s.BatteryPct -= km * 0.8
		if s.BatteryPct < 5 {
			s.BatteryPct = 100
		}
	}
}

// randomDefects returns up to maxDefects distinct catalogue entries; most inspections report none.
func randomDefects(rng *rand.Rand, maxDefects int) []Defect {
	defects := []Defect{}
	if rng.Float64() < 0.6 {
		return defects
	}
	n := 1 + rng.Intn(maxDefects)
	for _, i := range rng.Perm(len(catalogue))[:n] {
		defects = append(defects, catalogue[i])
	}
	return defects
}

func inspectionFromState(rng *rand.Rand, s *VehicleState, glitchRate float64) Inspection {
	insp := Inspection{
		VehicleID:      s.VehicleID,
		InspectionType: inspectionTypes[rng.Intn(len(inspectionTypes))],
		Mileage:        s.Mileage,
		Defects:        randomDefects(rng, 2),
	}
	// Occasionally report a mistyped odometer so the anomaly detector has work.
	if rng.Float64() < glitchRate {
		insp.Mileage = s.Mileage - 1000 - rng.Float64()*1000
	}
	if s.Type == "ICE" {
		fuel, adblue := s.FuelPct, s.AdBluePct
		insp.FuelLevels = FuelLevels{Fuel: &fuel, AdBlue: &adblue}
	} else {
		battery := s.BatteryPct
		insp.FuelLevels = FuelLevels{Battery: &battery}
	}
	return insp
}

func sendInspection(apiURL string, insp Inspection) error {
	data, err := json.Marshal(insp)
	if err != nil {
		return fmt.Errorf("failed to marshal inspection: %w", err)
	}
	resp, err := authorizedPost(apiURL+"/inspections", "application/json", bytes.NewBuffer(data))
	if err != nil {
		return fmt.Errorf("failed to send inspection: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("inspection submission failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Inspection struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Score  int    `json:"score"`
		} `json:"inspection"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	log.WithFields(log.Fields{
		"vehicle_id":    insp.VehicleID,
		"inspection_id": result.Inspection.ID,
		"defects":       len(insp.Defects),
		"status":        result.Inspection.Status,
		"score":         result.Inspection.Score,
	}).Info("Sent inspection")
	return nil
}

func simulateVehicle(apiURL string, rng *rand.Rand, s *VehicleState, interval time.Duration, hoursPerTick, glitchRate float64) {
	tick := time.NewTicker(interval)
	defer tick.Stop()
	for range tick.C {
		drive(rng, s, hoursPerTick)
		if err := sendInspection(apiURL, inspectionFromState(rng, s, glitchRate)); err != nil {
			log.WithError(err).WithField("vehicle_id", s.VehicleID).Error("Inspection not accepted")
		}
	}
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.WithField(key, v).Warn("Ignoring invalid integer")
	}
	return def
}

func main() {
	authToken = os.Getenv("SIM_AUTH_TOKEN")

	fleetSize := getEnvInt("FLEET_SIZE", 10)
	apiURL := os.Getenv("API_BASE_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8080/api"
	}

	interval := 5 * time.Second
	if n := getEnvInt("SIM_TICK_SECONDS", 5); n >= 1 {
		interval = time.Duration(n) * time.Second
	}
	hoursPerTick := float64(getEnvInt("SIM_DRIVING_HOURS_PER_TICK", 8))
	glitchRate := float64(getEnvInt("SIM_ODOMETER_GLITCH_PERCENT", 2)) / 100

	log.WithFields(log.Fields{
		"fleet_size": fleetSize,
		"api_url":    apiURL,
		"interval":   interval,
	}).Info("Starting inspection simulation")

	seed := time.Now().UnixNano()
	for i := 0; i < fleetSize; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		go simulateVehicle(apiURL, rng, newVehicleState(rng, i+1), interval, hoursPerTick, glitchRate)
	}
	select {}
}
