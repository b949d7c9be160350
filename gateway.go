/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package portalnetwork

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/strfmt"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/suparena/portalnetwork/errors"
	"github.com/suparena/portalnetwork/storagemodels"
)

// Document keys.
const (
	KeyPortals    = "portals"
	KeySavedAt    = "saved_at"
	KeyVersion    = "version"
	KeyLocation   = "location"
	KeyPortalType = "portal_type"
	KeyValid      = "valid"
	KeyDialed     = "dialed"

	keyWorld = "world"
	keyX     = "x"
	keyY     = "y"
	keyZ     = "z"
	keyYaw   = "yaw"
	keyPitch = "pitch"
)

// Record is one decoded portal entry of a persisted document.
type Record struct {
	Key      string
	Location Location
	Type     PortalType
	Valid    bool

	// Dialed is the address of the dialed portal, nil when undialed.
	Dialed *int
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Records  int // portal entries found in the document
	Loaded   int // portals registered
	Skipped  int // malformed entries
	Dialed   int // dials re-established
	Repaired int // portals stored as invalid that are valid again
	FirstRun bool
}

// EncodeDocument renders portals under ordinal keys in the given order.
func EncodeDocument(portals []*Portal, savedAt time.Time) *storagemodels.Section {
	doc := storagemodels.NewSection()
	doc.Set(KeySavedAt, strfmt.DateTime(savedAt.UTC()).String())
	doc.Set(KeyVersion, Version)

	section := doc.CreateSection(KeyPortals)
	for i, portal := range portals {
		record := section.CreateSection(strconv.Itoa(i))

		loc := portal.Location()
		location := record.CreateSection(KeyLocation)
		location.Set(keyWorld, loc.World)
		location.Set(keyX, loc.X)
		location.Set(keyY, loc.Y)
		location.Set(keyZ, loc.Z)
		location.Set(keyYaw, float64(loc.Yaw))
		location.Set(keyPitch, float64(loc.Pitch))

		record.Set(KeyPortalType, portal.Type().String())
		record.Set(KeyValid, portal.Valid())
		if address, ok := portal.DialedAddress(); ok {
			record.Set(KeyDialed, address)
		}
	}
	return doc
}

// DecodeRecords parses the portal entries of doc in document order. Entries
// that cannot be decoded are returned as *errors.MalformedRecordError values
// and do not stop decoding.
func DecodeRecords(doc *storagemodels.Section) ([]Record, []error) {
	if doc == nil {
		return nil, nil
	}
	section := doc.Section(KeyPortals)
	if section == nil {
		return nil, nil
	}

	var records []Record
	var malformed []error
	for _, key := range section.Keys() {
		record, err := decodeRecord(key, section.Section(key))
		if err != nil {
			malformed = append(malformed, err)
			continue
		}
		records = append(records, record)
	}
	return records, malformed
}

func decodeRecord(key string, section *storagemodels.Section) (Record, error) {
	if section == nil {
		return Record{}, errors.NewMalformedRecordError(key, "", "not a section")
	}
	record := Record{Key: key}

	location, err := decodeLocation(key, section.Section(KeyLocation))
	if err != nil {
		return Record{}, err
	}
	record.Location = location

	name, ok := section.String(KeyPortalType)
	if !ok {
		return Record{}, errors.NewMalformedRecordError(key, KeyPortalType, "missing or not a string")
	}
	record.Type, err = ParsePortalType(name)
	if err != nil {
		return Record{}, errors.NewMalformedRecordError(key, KeyPortalType, fmt.Sprintf("unknown portal type %q", name))
	}

	if section.Contains(KeyValid) {
		if record.Valid, ok = section.Bool(KeyValid); !ok {
			return Record{}, errors.NewMalformedRecordError(key, KeyValid, "not a boolean")
		}
	}

	if section.Contains(KeyDialed) {
		address, ok := section.Int(KeyDialed)
		if !ok {
			return Record{}, errors.NewMalformedRecordError(key, KeyDialed, "not an integer")
		}
		record.Dialed = Int(address)
	}
	return record, nil
}

func decodeLocation(key string, section *storagemodels.Section) (Location, error) {
	if section == nil {
		return Location{}, errors.NewMalformedRecordError(key, KeyLocation, "missing or not a section")
	}
	var loc Location
	var ok bool
	if loc.World, ok = section.String(keyWorld); !ok || loc.World == "" {
		return Location{}, errors.NewMalformedRecordError(key, KeyLocation+"."+keyWorld, "missing or not a string")
	}
	coords := []struct {
		name string
		dst  *float64
	}{{keyX, &loc.X}, {keyY, &loc.Y}, {keyZ, &loc.Z}}
	for _, c := range coords {
		if *c.dst, ok = section.Float(c.name); !ok {
			return Location{}, errors.NewMalformedRecordError(key, KeyLocation+"."+c.name, "missing or not a number")
		}
	}
	if yaw, ok := section.Float(keyYaw); ok {
		loc.Yaw = float32(yaw)
	}
	if pitch, ok := section.Float(keyPitch); ok {
		loc.Pitch = float32(pitch)
	}
	return loc, nil
}

// Load restores the registry from its document store. The registry must be
// empty; use Reload to replace loaded state.
//
// Portals stored as valid are inspected immediately. Portals stored as invalid
// are registered uninspected, so they cannot be dialed, and are inspected and
// reindexed once all dials have been replayed. Dials are replayed in document
// order only after every portal is registered. Malformed entries and failed
// dials are skipped.
//
// A store without prior data is a first run and not an error. Any other read
// failure leaves the registry empty and returns an error matching
// errors.ErrReadFailed.
func (r *Registry) Load(ctx context.Context) (LoadReport, error) {
	ctx, span := r.tracer.Start(ctx, "portalnetwork.Load")
	defer span.End()

	var report LoadReport
	if len(r.portals) > 0 {
		err := errors.NewValidationError("registry", "registry already holds portals, use Reload")
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	if r.store == nil {
		err := errors.NewValidationError("store", "registry has no document store")
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		if errors.IsNoPriorData(err) {
			report.FirstRun = true
			span.SetAttributes(attribute.Bool("portal.first_run", true))
			r.logger.Info("no saved portals, starting empty")
			return report, nil
		}
		err = errors.NewReadError("portal document", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Warn("failed to read portals, starting empty", "error", err)
		return report, err
	}

	if savedAt, ok := doc.String(KeySavedAt); ok {
		version, _ := doc.String(KeyVersion)
		r.logger.Debug("reading portal document", "saved_at", savedAt, "version", version)
	}

	records, malformed := DecodeRecords(doc)
	report.Records = len(records) + len(malformed)
	report.Skipped = len(malformed)
	for _, err := range malformed {
		r.logger.Warn("skipping malformed portal record", "error", err)
	}

	type pendingDial struct {
		portal  *Portal
		address int
	}
	var dials []pendingDial
	var deferred []*Portal

	for _, record := range records {
		portal := NewPortal(r.geometry, record.Location, record.Type)
		if record.Valid {
			_, _ = portal.Update()
		} else {
			deferred = append(deferred, portal)
		}
		if record.Dialed != nil {
			dials = append(dials, pendingDial{portal: portal, address: *record.Dialed})
		}
		r.portals = append(r.portals, portal)
		r.index.Reindex(portal)
		report.Loaded++
	}

	for _, d := range dials {
		if err := d.portal.Dial(r, d.address); err != nil {
			r.logger.Debug("not restoring dial", "portal", d.portal.String(), "error", err)
			continue
		}
		report.Dialed++
	}

	for _, portal := range deferred {
		if valid, _ := portal.Update(); valid {
			report.Repaired++
		}
		r.index.Reindex(portal)
	}

	r.metrics.LoadRecords.WithLabelValues("loaded").Add(float64(report.Loaded))
	r.metrics.LoadRecords.WithLabelValues("skipped").Add(float64(report.Skipped))
	r.publishCounts()

	span.SetAttributes(
		attribute.Int("portal.records", report.Records),
		attribute.Int("portal.loaded", report.Loaded),
		attribute.Int("portal.skipped", report.Skipped),
		attribute.Int("portal.dialed", report.Dialed),
	)
	r.logger.Info("portals loaded",
		"records", report.Records,
		"loaded", report.Loaded,
		"skipped", report.Skipped,
		"dialed", report.Dialed,
		"repaired", report.Repaired,
	)
	return report, nil
}

// Reload destroys every registered portal, empties the registry and loads it
// again from the document store.
func (r *Registry) Reload(ctx context.Context) (LoadReport, error) {
	for _, portal := range r.portals {
		portal.Destroy()
	}
	r.portals = nil
	r.index.Clear()
	r.publishCounts()
	return r.Load(ctx)
}
