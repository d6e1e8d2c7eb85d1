package dto

// RegisterBedRequest body para POST /api/beds.
type RegisterBedRequest struct {
	BedNumber     string `json:"bed_number"`
	Description   string `json:"description,omitempty"`
	HasOxygen     bool   `json:"has_oxygen"`
	HasMonitor    bool   `json:"has_monitor"`
	HasVentilator bool   `json:"has_ventilator"`
}

// AdmitRequest body para POST /api/allocations.
type AdmitRequest struct {
	BedID                 string  `json:"bed_id"`
	PatientRecordID       *string `json:"patient_record_id,omitempty"`
	PatientName           string  `json:"patient_name,omitempty"` // obligatorio si no hay record
	PatientID             string  `json:"patient_id,omitempty"`
	AdmissionDate         string  `json:"admission_date,omitempty"` // RFC3339; vacío = ahora
	ExpectedDischargeDate string  `json:"expected_discharge_date,omitempty"` // YYYY-MM-DD
	Condition             string  `json:"condition"`
	SpecialRequirements   string  `json:"special_requirements,omitempty"`
	AttendingDoctorID     string  `json:"attending_doctor_id"`
}

// DischargeRequest body para POST /api/allocations/:id/discharge.
type DischargeRequest struct {
	Notes               string `json:"notes,omitempty"`
	ActualDischargeDate string `json:"actual_discharge_date,omitempty"` // RFC3339; vacío = ahora
}

// OccupancyAnalyticsResponse métricas de utilización de camas.
type OccupancyAnalyticsResponse struct {
	TotalBeds          int     `json:"total_beds"`
	AvailableBeds      int     `json:"available_beds"`
	OccupiedBeds       int     `json:"occupied_beds"`
	OccupancyRate      float64 `json:"occupancy_rate"`       // % ocupación, 2 decimales
	ActiveAllocations  int     `json:"active_allocations"`
	AverageStayDays    float64 `json:"average_stay_days"`    // solo altas, 1 decimal
	OverduePatients    int     `json:"overdue_patients"`
	AdmissionsToday    int     `json:"admissions_today"`
	ExpectedDischarges int     `json:"expected_discharges_today"`
}
