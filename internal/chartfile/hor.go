// Package chartfile reads chart descriptions from Morinus .hor files and YAML.
package chartfile

import (
	"bufio"
	"bytes"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/almuten/internal/model"
)

var horInt = regexp.MustCompile(`\.I(-?\d+)`)

// LoadHor parses a Morinus .hor file
func LoadHor(path string) (model.ChartInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ChartInput{}, model.InputErrorf("chart", "cannot read %s: %v", path, err)
	}
	return ParseHor(data)
}

// ParseHor decodes the .hor layout: a "V<name>" line plus a stream of .I
// integers holding the zone (hours, minutes, DST flag), the local civil
// date and time, and a trailing coordinate block. Local time is converted
// to UTC with the stored offset.
func ParseHor(data []byte) (model.ChartInput, error) {
	name, ok := horName(data)
	if !ok {
		return model.ChartInput{}, model.InputErrorf("chart", "no name (V...) line in .hor data")
	}

	var ints []int
	for _, m := range horInt.FindAllSubmatch(data, -1) {
		n, err := strconv.Atoi(string(m[1]))
		if err != nil {
			return model.ChartInput{}, model.InputErrorf("chart", "bad integer field %q", m[1])
		}
		ints = append(ints, n)
	}
	if len(ints) == 0 {
		return model.ChartInput{}, model.InputErrorf("chart", "no integer (.I...) fields in .hor data")
	}

	local, err := horDateTime(ints)
	if err != nil {
		return model.ChartInput{}, err
	}
	lat, lon, err := horCoordinates(ints)
	if err != nil {
		return model.ChartInput{}, err
	}
	offset := horOffset(ints)

	shift := time.Duration(math.Round(offset * float64(time.Hour)))
	return model.ChartInput{
		Name:        name,
		Time:        local.Add(-shift),
		TZOffset:    offset,
		Latitude:    lat,
		Longitude:   lon,
		HouseSystem: model.HouseSystemWholeSign,
		Zodiac:      model.ZodiacTropical,
	}, nil
}

func horName(data []byte) (string, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "V") {
			return strings.TrimSpace(line[1:]), true
		}
	}
	return "", false
}

func horOffset(ints []int) float64 {
	field := func(i int) int {
		if i < len(ints) {
			return ints[i]
		}
		return 0
	}
	offset := float64(field(0)) + float64(field(1))/60
	if field(2) != 0 {
		offset++
	}
	return offset
}

// horDateTime reads the block that starts at the first four-digit value
func horDateTime(ints []int) (time.Time, error) {
	for i, v := range ints {
		if v < 1000 {
			continue
		}
		if len(ints) < i+5 {
			return time.Time{}, model.InputErrorf("time", "incomplete date/time block in .hor data")
		}
		second := 0
		if len(ints) > i+5 {
			second = ints[i+5]
		}
		month, day, hour, minute := ints[i+1], ints[i+2], ints[i+3], ints[i+4]
		if month < 1 || month > 12 || day < 1 || day > 31 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return time.Time{}, model.InputErrorf("time", "invalid date %04d-%02d-%02d %02d:%02d", v, month, day, hour, minute)
		}
		return time.Date(v, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
	}
	return time.Time{}, model.InputErrorf("time", "no year in .hor integer stream")
}

// horCoordinates decodes the trailing block: longitude d/m/s and east flag,
// latitude d/m/s and north flag, then altitude (ignored)
func horCoordinates(ints []int) (lat, lon float64, err error) {
	if len(ints) < 8 {
		return 0, 0, model.InputErrorf("latitude", "not enough fields for coordinates in .hor data")
	}
	block := ints[len(ints)-8:]
	if len(ints) >= 9 {
		block = ints[len(ints)-9 : len(ints)-1]
	}
	dms := func(d, m, s int) float64 {
		return math.Abs(float64(d)) + float64(m)/60 + float64(s)/3600
	}
	lon = dms(block[0], block[1], block[2])
	if block[3] < 1 {
		lon = -lon
	}
	lat = dms(block[4], block[5], block[6])
	if block[7] < 1 {
		lat = -lat
	}
	return lat, lon, nil
}
