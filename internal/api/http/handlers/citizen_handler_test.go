package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nagardrishti/complaint-service/internal/api/dto"
)

func TestParseCheckbox(t *testing.T) {
	for _, v := range []string{"on", "true", "1", "yes", " YES "} {
		assert.True(t, parseCheckbox(v), v)
	}
	for _, v := range []string{"", "off", "false", "0", "no"} {
		assert.False(t, parseCheckbox(v), v)
	}
}

func TestReportInput(t *testing.T) {
	valid := dto.ReportForm{
		MobileNumber: "9876543210",
		CategoryID:   "2",
		Address:      " MG Road ",
		Latitude:     "18.52",
		Longitude:    "",
		Override:     "on",
	}

	in, msg := reportInput(valid)
	assert.Empty(t, msg)
	assert.Equal(t, 2, in.CategoryID)
	assert.Equal(t, "MG Road", in.Address)
	assert.InDelta(t, 18.52, in.Latitude, 1e-9)
	assert.Zero(t, in.Longitude)
	assert.True(t, in.Override)

	cases := map[string]func(f *dto.ReportForm){
		"category not a number":  func(f *dto.ReportForm) { f.CategoryID = "dustbin" },
		"category outside range": func(f *dto.ReportForm) { f.CategoryID = "42" },
		"blank address":          func(f *dto.ReportForm) { f.Address = "  " },
		"latitude out of range":  func(f *dto.ReportForm) { f.Latitude = "91" },
		"longitude not a number": func(f *dto.ReportForm) { f.Longitude = "east" },
		"latitude NaN":           func(f *dto.ReportForm) { f.Latitude = "NaN" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := valid
			mutate(&form)
			_, msg := reportInput(form)
			assert.NotEmpty(t, msg)
		})
	}
}
