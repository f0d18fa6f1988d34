package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	for _, value := range []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled", "returned"} {
		status, err := ParseOrderStatus(value)
		if err != nil {
			t.Fatalf("expected %q to parse: %v", value, err)
		}
		if status.String() != value {
			t.Fatalf("round trip mismatch: %q != %q", status, value)
		}
	}

	if _, err := ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if _, err := ParseOrderStatus("Pending"); err == nil {
		t.Fatal("statuses are lowercase on the wire; mixed case must fail")
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusCancelled.IsTerminal() || !OrderStatusReturned.IsTerminal() {
		t.Fatal("cancelled and returned are terminal")
	}
	for _, status := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered} {
		if status.IsTerminal() {
			t.Fatalf("%s should not be terminal", status)
		}
	}
}
