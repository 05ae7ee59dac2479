package domain

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()

	v := validator.New()
	// gin-биндинг читает теги "binding"
	v.SetTagName("binding")
	if err := RegisterValidations(v); err != nil {
		t.Fatalf("RegisterValidations: %v", err)
	}
	return v
}

func validRequest() ClientRequest {
	return ClientRequest{
		FirstName: "Ana",
		LastName:  "García",
		BirthDate: NewDate(1990, time.May, 12),
		CUIT:      "27-12345678-0",
		Address:   "Calle Falsa 123",
		Mobile:    "+5491122334455",
		Email:     "ana@example.com",
	}
}

func TestClientRequestValidation(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		mutate  func(*ClientRequest)
		wantErr bool
	}{
		{
			name:   "valid request",
			mutate: func(r *ClientRequest) {},
		},
		{
			name:   "address is optional",
			mutate: func(r *ClientRequest) { r.Address = "" },
		},
		{
			name:    "missing first name",
			mutate:  func(r *ClientRequest) { r.FirstName = "" },
			wantErr: true,
		},
		{
			name:    "missing birth date",
			mutate:  func(r *ClientRequest) { r.BirthDate = Date{} },
			wantErr: true,
		},
		{
			name: "birth date today",
			mutate: func(r *ClientRequest) {
				now := time.Now().UTC()
				r.BirthDate = NewDate(now.Year(), now.Month(), now.Day())
			},
			wantErr: true,
		},
		{
			name: "birth date in the future",
			mutate: func(r *ClientRequest) {
				future := time.Now().UTC().AddDate(1, 0, 0)
				r.BirthDate = NewDate(future.Year(), future.Month(), future.Day())
			},
			wantErr: true,
		},
		{
			name:    "cuit with wrong check digit",
			mutate:  func(r *ClientRequest) { r.CUIT = "27-12345678-5" },
			wantErr: true,
		},
		{
			name:    "malformed email",
			mutate:  func(r *ClientRequest) { r.Email = "not-an-email" },
			wantErr: true,
		},
		{
			name:    "missing mobile",
			mutate:  func(r *ClientRequest) { r.Mobile = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Struct(req)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	var d Date
	if err := d.UnmarshalJSON([]byte(`"1990-05-12"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	got, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(got) != `"1990-05-12"` {
		t.Errorf("MarshalJSON = %s, want %q", got, `"1990-05-12"`)
	}

	if err := d.UnmarshalJSON([]byte(`"12/05/1990"`)); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
