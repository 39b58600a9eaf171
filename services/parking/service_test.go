package parking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"parkwise/database/repository/memory"
	"parkwise/models"
	"parkwise/services/qr"
	"parkwise/utils"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingGateway struct{ calls int }

func (g *failingGateway) Charge(context.Context, PaymentRequest) (string, error) {
	g.calls++
	return "", errors.New("card declined")
}

type recordingReminders struct{ scheduled []models.ArrivalReminder }

func (r *recordingReminders) ScheduleArrivalReminder(_ context.Context, rem models.ArrivalReminder) error {
	r.scheduled = append(r.scheduled, rem)
	return nil
}

type fixture struct {
	svc     *DefaultParkingService
	clock   *testClock
	slots   *memory.SlotStore
	archive *memory.ArchiveStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	archive := memory.NewArchiveStore()
	slots := memory.NewSlotStore(archive)
	svc := &DefaultParkingService{
		Slots:        slots,
		Archive:      archive,
		QR:           qr.NewCodec(nil),
		Payments:     SimulatedGateway{},
		PricePerHour: 50,
		Currency:     "inr",
		Now:          clock.Now,
	}
	if _, err := svc.EnsureSlots(context.Background(), []string{"A", "B"}, 2); err != nil {
		t.Fatalf("EnsureSlots: %v", err)
	}
	return &fixture{svc: svc, clock: clock, slots: slots, archive: archive}
}

func (f *fixture) arrival(d time.Duration) string {
	return f.clock.Now().Add(d).Format(time.RFC3339)
}

func (f *fixture) reserve(t *testing.T, userID, slotID string) *ReservationResult {
	t.Helper()
	res, err := f.svc.Reserve(context.Background(), userID, ReserveRequest{
		SlotID:        slotID,
		VehicleNumber: "ka01ab1234",
		ArrivalTime:   f.arrival(time.Hour),
	})
	if err != nil {
		t.Fatalf("Reserve(%s, %s): %v", userID, slotID, err)
	}
	return res
}

func (f *fixture) stored(t *testing.T, slotID string) *models.Slot {
	t.Helper()
	slot, err := f.slots.GetByID(context.Background(), slotID)
	if err != nil || slot == nil {
		t.Fatalf("GetByID(%s) = %v, %v", slotID, slot, err)
	}
	return slot
}

func assertKind(t *testing.T, err error, kind utils.ErrorKind, msg string) {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error = %v, want *AppError", err)
	}
	if appErr.Kind != kind || appErr.Message != msg {
		t.Fatalf("error = (%v, %q), want (%v, %q)", appErr.Kind, appErr.Message, kind, msg)
	}
}

func TestEnsureSlotsSeedsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, _ := f.svc.AllSlots(ctx)
	if len(all) != 4 || all[0].ID != "A-01" || all[3].ID != "B-02" {
		t.Fatalf("seeded slots = %+v", all)
	}
	if all[0].QRCode != "parking_slot:A-01" || all[0].Status != models.SlotAvailable {
		t.Errorf("seeded slot = %+v", all[0])
	}

	n, err := f.svc.EnsureSlots(ctx, []string{"C"}, 6)
	if err != nil || n != 0 {
		t.Errorf("second EnsureSlots = %d, %v; want 0, nil", n, err)
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reminders := &recordingReminders{}
	f.svc.Reminders = reminders

	res := f.reserve(t, "u1", "A-01")
	if res.Booking.Status != models.SlotReserved || res.Booking.VehicleNumber != "KA01AB1234" {
		t.Fatalf("reserved slot = %+v", res.Booking)
	}
	if !strings.HasPrefix(res.QRCode, "data:image/png;base64,") {
		t.Errorf("QR image = %.40s", res.QRCode)
	}
	if !strings.Contains(res.Booking.ReservationQRCode, `"type":"reservation"`) {
		t.Errorf("reservation payload = %s", res.Booking.ReservationQRCode)
	}
	if len(reminders.scheduled) != 1 || reminders.scheduled[0].SlotID != "A-01" {
		t.Errorf("reminders = %+v", reminders.scheduled)
	}

	f.clock.Advance(time.Hour)
	if _, err := f.svc.RequestOccupied(ctx, "u1"); err != nil {
		t.Fatalf("RequestOccupied: %v", err)
	}
	approval, err := f.svc.ApproveOccupied(ctx, "A-01")
	if err != nil {
		t.Fatalf("ApproveOccupied: %v", err)
	}
	slot := approval.Slot
	if slot.Status != models.SlotOccupied || slot.ParkedTime == nil || !slot.ParkedTime.Equal(f.clock.Now()) {
		t.Fatalf("occupied slot = %+v", slot)
	}
	if slot.ReservationQRCode != "" || slot.OccupiedRequestStatus != "" {
		t.Errorf("reservation proof not cleared: %+v", slot)
	}
	if !strings.Contains(slot.OccupiedQRCode, `"type":"occupied"`) {
		t.Errorf("occupied payload = %s", slot.OccupiedQRCode)
	}

	f.clock.Advance(2 * time.Hour)
	leaving, err := f.svc.RequestLeaving(ctx, "u1")
	if err != nil {
		t.Fatalf("RequestLeaving: %v", err)
	}
	if leaving.Cost != 100 || leaving.Duration.TotalMinutes != 120 || leaving.PaymentStatus != models.PaymentPending {
		t.Fatalf("leaving = cost %d, %+v, %s", leaving.Cost, leaving.Duration, leaving.PaymentStatus)
	}

	f.clock.Advance(5 * time.Minute)
	paid, err := f.svc.Pay(ctx, "u1", PayRequest{})
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if paid.PaymentStatus != models.PaymentPaid || paid.PaymentTime == nil || paid.PaymentReference == "" {
		t.Fatalf("paid slot = %+v", paid)
	}

	f.clock.Advance(5 * time.Minute)
	record, err := f.svc.ApproveLeaving(ctx, "A-01", "admin-1")
	if err != nil {
		t.Fatalf("ApproveLeaving: %v", err)
	}
	if record.Cost != 100 || record.Duration.TotalMinutes != 120 || record.ApprovedBy != "admin-1" || record.User != "u1" {
		t.Errorf("record = %+v", record)
	}

	freed := f.stored(t, "A-01")
	if freed.Status != models.SlotAvailable || !freed.IsClear() || freed.QRCode != "parking_slot:A-01" {
		t.Errorf("slot after completion = %+v", freed)
	}

	history, _ := f.svc.History(ctx, "u1")
	if len(history) != 1 || history[0].ID != record.ID {
		t.Errorf("history = %+v", history)
	}
	if booking, _ := f.svc.GetBooking(ctx, "u1"); booking != nil {
		t.Errorf("booking after completion = %+v", booking)
	}
}

func TestReserveValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  ReserveRequest
		msg  string
	}{
		{"missing slot", ReserveRequest{VehicleNumber: "KA01", ArrivalTime: f.arrival(time.Hour)}, "slotId is required"},
		{"missing vehicle", ReserveRequest{SlotID: "A-01", ArrivalTime: f.arrival(time.Hour)}, "vehicleNumber is required"},
		{"short vehicle", ReserveRequest{SlotID: "A-01", VehicleNumber: "AB1", ArrivalTime: f.arrival(time.Hour)}, "Invalid vehicle number"},
		{"symbol in vehicle", ReserveRequest{SlotID: "A-01", VehicleNumber: "KA01#1234", ArrivalTime: f.arrival(time.Hour)}, "Invalid vehicle number"},
		{"missing arrival", ReserveRequest{SlotID: "A-01", VehicleNumber: "KA01AB1234"}, "arrivalTime is required"},
		{"bad arrival", ReserveRequest{SlotID: "A-01", VehicleNumber: "KA01AB1234", ArrivalTime: "tomorrow"}, "arrivalTime must be an RFC3339 timestamp"},
		{"past arrival", ReserveRequest{SlotID: "A-01", VehicleNumber: "KA01AB1234", ArrivalTime: f.arrival(-time.Hour)}, "arrivalTime cannot be in the past"},
		{"far arrival", ReserveRequest{SlotID: "A-01", VehicleNumber: "KA01AB1234", ArrivalTime: f.arrival(8 * 24 * time.Hour)}, "arrivalTime must be within 7 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Reserve(ctx, "u1", tt.req)
			assertKind(t, err, utils.KindValidation, tt.msg)
		})
	}

	if !f.stored(t, "A-01").IsClear() {
		t.Error("rejected reservations must not touch the slot")
	}
}

func TestReserveConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reserve(t, "u1", "A-01")

	_, err := f.svc.Reserve(ctx, "u1", ReserveRequest{SlotID: "A-02", VehicleNumber: "KA01AB1234", ArrivalTime: f.arrival(time.Hour)})
	assertKind(t, err, utils.KindConflict, "You already have an active reservation")

	_, err = f.svc.Reserve(ctx, "u2", ReserveRequest{SlotID: "A-01", VehicleNumber: "MH12XY9876", ArrivalTime: f.arrival(time.Hour)})
	assertKind(t, err, utils.KindConflict, "Slot is not available")

	_, err = f.svc.Reserve(ctx, "u2", ReserveRequest{SlotID: "Z-99", VehicleNumber: "MH12XY9876", ArrivalTime: f.arrival(time.Hour)})
	assertKind(t, err, utils.KindNotFound, "Slot not found")
}

func TestConcurrentReservationsOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Reserve(ctx, "racer-"+string(rune('a'+i)), ReserveRequest{
				SlotID:        "B-01",
				VehicleNumber: "KA01AB1234",
				ArrivalTime:   f.arrival(time.Hour),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !utils.IsKind(err, utils.KindConflict) {
			t.Errorf("losing reservation error = %v, want conflict", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d reservations succeeded, want exactly 1", wins)
	}
}

func TestVisibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reserve(t, "u1", "A-01")

	mine, _ := f.svc.ListSlots(ctx, "u1")
	theirs, _ := f.svc.ListSlots(ctx, "u2")
	if len(mine) != 4 {
		t.Errorf("owner sees %d slots, want 4", len(mine))
	}
	if len(theirs) != 3 {
		t.Errorf("other user sees %d slots, want 3", len(theirs))
	}
	for _, s := range theirs {
		if s.ID == "A-01" {
			t.Error("other user can see a reserved slot")
		}
	}
}

func TestRequestOccupiedBeforeArrival(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestOccupied(ctx, "u1")
	assertKind(t, err, utils.KindNotFound, "No active reservation found")

	f.reserve(t, "u1", "A-01")
	_, err = f.svc.RequestOccupied(ctx, "u1")
	assertKind(t, err, utils.KindValidation, "Cannot request occupied status before arrival time")
	var appErr *utils.AppError
	errors.As(err, &appErr)
	if _, ok := appErr.Fields["arrivalTime"]; !ok {
		t.Error("arrivalTime missing from error fields")
	}

	f.clock.Advance(59 * time.Minute)
	if _, err := f.svc.RequestOccupied(ctx, "u1"); err == nil {
		t.Error("request one minute early succeeded")
	}
	f.clock.Advance(time.Minute)
	if _, err := f.svc.RequestOccupied(ctx, "u1"); err != nil {
		t.Errorf("request at arrival time: %v", err)
	}
}

func TestRejectOccupiedKeepsReservation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reserve(t, "u1", "A-01")
	f.clock.Advance(time.Hour)

	_, err := f.svc.RejectOccupied(ctx, "A-01")
	assertKind(t, err, utils.KindValidation, "No pending occupied request for this slot")

	f.svc.RequestOccupied(ctx, "u1")
	slot, err := f.svc.RejectOccupied(ctx, "A-01")
	if err != nil {
		t.Fatalf("RejectOccupied: %v", err)
	}
	if slot.Status != models.SlotReserved || slot.OccupiedRequestStatus != "" || slot.BookedBy != "u1" {
		t.Errorf("slot after rejection = %+v", slot)
	}
	if _, err := f.svc.RequestOccupied(ctx, "u1"); err != nil {
		t.Errorf("re-request after rejection: %v", err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assertKind(t, f.svc.Cancel(ctx, "u1"), utils.KindNotFound, "No active reservation found")

	f.reserve(t, "u1", "A-01")
	if err := f.svc.Cancel(ctx, "u1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if slot := f.stored(t, "A-01"); slot.Status != models.SlotAvailable || !slot.IsClear() {
		t.Errorf("slot after cancel = %+v", slot)
	}

	// Once parked, cancelling is no longer possible.
	f.reserve(t, "u1", "A-02")
	f.clock.Advance(time.Hour)
	f.svc.RequestOccupied(ctx, "u1")
	f.svc.ApproveOccupied(ctx, "A-02")
	assertKind(t, f.svc.Cancel(ctx, "u1"), utils.KindNotFound, "No active reservation found")
}

func TestRequestLeavingGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RequestLeaving(ctx, "u1")
	assertKind(t, err, utils.KindNotFound, "No active parking found")

	f.reserve(t, "u1", "A-01")
	_, err = f.svc.RequestLeaving(ctx, "u1")
	assertKind(t, err, utils.KindNotFound, "No active parking found")

	// An override can leave an occupied slot without a parked time.
	if _, err := f.svc.ForceStatus(ctx, "A-01", models.SlotOccupied); err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}
	_, err = f.svc.RequestLeaving(ctx, "u1")
	assertKind(t, err, utils.KindValidation, "Parking time not set")
}

func parkAndLeave(t *testing.T, f *fixture, userID, slotID string, stay time.Duration) {
	t.Helper()
	ctx := context.Background()
	f.reserve(t, userID, slotID)
	f.clock.Advance(time.Hour)
	if _, err := f.svc.RequestOccupied(ctx, userID); err != nil {
		t.Fatalf("RequestOccupied: %v", err)
	}
	if _, err := f.svc.ApproveOccupied(ctx, slotID); err != nil {
		t.Fatalf("ApproveOccupied: %v", err)
	}
	f.clock.Advance(stay)
	if _, err := f.svc.RequestLeaving(ctx, userID); err != nil {
		t.Fatalf("RequestLeaving: %v", err)
	}
}

func TestPayTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	parkAndLeave(t, f, "u1", "A-01", 61*time.Minute)

	if got := f.stored(t, "A-01").Cost; got != 51 {
		t.Errorf("cost for 61 minutes = %d, want 51", got)
	}
	if _, err := f.svc.Pay(ctx, "u1", PayRequest{}); err != nil {
		t.Fatalf("first Pay: %v", err)
	}
	_, err := f.svc.Pay(ctx, "u1", PayRequest{})
	assertKind(t, err, utils.KindNotFound, "No pending payment found")
}

func TestPaymentFailureCanBeRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	gateway := &failingGateway{}
	f.svc.Payments = gateway
	parkAndLeave(t, f, "u1", "A-01", time.Hour)

	_, err := f.svc.Pay(ctx, "u1", PayRequest{})
	assertKind(t, err, utils.KindValidation, "Payment failed, please try again")
	if got := f.stored(t, "A-01").PaymentStatus; got != models.PaymentFailed {
		t.Errorf("payment status = %s, want failed", got)
	}

	_, err = f.svc.ApproveLeaving(ctx, "A-01", "admin-1")
	assertKind(t, err, utils.KindValidation, "Payment not completed")

	f.svc.Payments = SimulatedGateway{}
	if _, err := f.svc.Pay(ctx, "u1", PayRequest{}); err != nil {
		t.Fatalf("retry Pay: %v", err)
	}
	if gateway.calls != 1 {
		t.Errorf("failing gateway called %d times", gateway.calls)
	}
}

func TestZeroCostSkipsGateway(t *testing.T) {
	f := newFixture(t)
	gateway := &failingGateway{}
	f.svc.Payments = gateway
	parkAndLeave(t, f, "u1", "A-01", 0)

	slot, err := f.svc.Pay(context.Background(), "u1", PayRequest{})
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if slot.Cost != 0 || slot.PaymentReference != "free" || gateway.calls != 0 {
		t.Errorf("slot = %+v, gateway calls = %d", slot, gateway.calls)
	}
}

func TestStripeGatewayRequiresPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.svc.Payments = StripeGateway{}
	parkAndLeave(t, f, "u1", "A-01", time.Hour)

	_, err := f.svc.Pay(context.Background(), "u1", PayRequest{})
	assertKind(t, err, utils.KindValidation, "paymentMethodId is required")
	if got := f.stored(t, "A-01").PaymentStatus; got != models.PaymentPending {
		t.Errorf("payment status = %s, want pending", got)
	}
}

func TestApproveLeavingGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ApproveLeaving(ctx, "Z-99", "admin-1")
	assertKind(t, err, utils.KindNotFound, "Slot not found")

	f.reserve(t, "u1", "A-01")
	_, err = f.svc.ApproveLeaving(ctx, "A-01", "admin-1")
	assertKind(t, err, utils.KindValidation, "No pending leaving request for this slot")

	_, err = f.svc.ApproveOccupied(ctx, "A-01")
	assertKind(t, err, utils.KindValidation, "No pending occupied request for this slot")
}

func TestForceStatusAndRelease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ForceStatus(ctx, "A-01", "broken")
	assertKind(t, err, utils.KindValidation, "Invalid slot status")

	_, err = f.svc.Release(ctx, "A-01")
	assertKind(t, err, utils.KindValidation, "Slot is already available")

	f.reserve(t, "u1", "A-01")
	slot, err := f.svc.ForceStatus(ctx, "A-01", models.SlotMaintenance)
	if err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}
	if slot.Status != models.SlotMaintenance || slot.BookedBy != "u1" {
		t.Errorf("override touched more than status: %+v", slot)
	}

	released, err := f.svc.Release(ctx, "A-01")
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released.Status != models.SlotAvailable || !released.IsClear() {
		t.Errorf("released slot = %+v", released)
	}
	if booking, _ := f.svc.GetBooking(ctx, "u1"); booking != nil {
		t.Errorf("user still holds %+v after release", booking)
	}
}

func TestCurrentQRCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CurrentQRCode(ctx, "u1")
	assertKind(t, err, utils.KindNotFound, "No active booking found")

	f.reserve(t, "u1", "A-01")
	code, err := f.svc.CurrentQRCode(ctx, "u1")
	if err != nil || code.Type != models.QRReservation || code.SlotID != "A-01" {
		t.Fatalf("CurrentQRCode = %+v, %v", code, err)
	}

	f.clock.Advance(time.Hour)
	f.svc.RequestOccupied(ctx, "u1")
	f.svc.ApproveOccupied(ctx, "A-01")
	code, err = f.svc.CurrentQRCode(ctx, "u1")
	if err != nil || code.Type != models.QROccupied {
		t.Fatalf("CurrentQRCode after parking = %+v, %v", code, err)
	}
}

func TestForcedMaintenanceReleasesBookingLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.reserve(t, "u1", "A-01")
	if _, err := f.svc.ForceStatus(ctx, "A-01", models.SlotMaintenance); err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}
	if booking, _ := f.svc.GetBooking(ctx, "u1"); booking != nil {
		t.Errorf("booking on a maintenance slot = %+v", booking)
	}

	res := f.reserve(t, "u1", "A-02")
	if res.Booking.ID != "A-02" || res.Booking.Status != models.SlotReserved {
		t.Fatalf("reservation after override = %+v", res.Booking)
	}

	// Putting the old slot back in play would give u1 two active slots.
	_, err := f.svc.ForceStatus(ctx, "A-01", models.SlotReserved)
	assertKind(t, err, utils.KindConflict, "You already have an active reservation")
	if got := f.stored(t, "A-01").Status; got != models.SlotMaintenance {
		t.Errorf("A-01 status = %s, want maintenance", got)
	}
}

func TestReserveClearsFieldsLeftByOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.reserve(t, "u2", "B-01")
	f.clock.Advance(time.Hour)
	f.svc.RequestOccupied(ctx, "u2")
	if _, err := f.svc.ApproveOccupied(ctx, "B-01"); err != nil {
		t.Fatalf("ApproveOccupied: %v", err)
	}
	f.clock.Advance(time.Hour)
	if _, err := f.svc.RequestLeaving(ctx, "u2"); err != nil {
		t.Fatalf("RequestLeaving: %v", err)
	}
	if _, err := f.svc.Pay(ctx, "u2", PayRequest{}); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if _, err := f.svc.ForceStatus(ctx, "B-01", models.SlotAvailable); err != nil {
		t.Fatalf("ForceStatus: %v", err)
	}

	res := f.reserve(t, "u3", "B-01")
	slot := f.stored(t, "B-01")
	for _, s := range []*models.Slot{res.Booking, slot} {
		if s.BookedBy != "u3" || s.Status != models.SlotReserved {
			t.Fatalf("reservation = %+v", s)
		}
		if s.ParkedTime != nil || s.LeavingRequestTime != nil || s.PaymentTime != nil ||
			s.PaymentStatus != "" || s.Cost != 0 || s.LeavingRequestStatus != "" ||
			s.OccupiedQRCode != "" || s.PaymentReference != "" {
			t.Errorf("fresh reservation carries an earlier booking: %+v", s)
		}
	}
}
