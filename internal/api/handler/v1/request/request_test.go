package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/ticktopia-api/internal/domain"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := RegisterRequest{
		Email:           "ana@example.com",
		Password:        "Abc123",
		ConfirmPassword: "Abc123",
		Name:            "Ana",
		Lastname:        "Lopez",
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantErr bool
	}{
		{name: "valid", mutate: func(*RegisterRequest) {}},
		{name: "bad email", mutate: func(r *RegisterRequest) { r.Email = "not-an-email" }, wantErr: true},
		{name: "weak password", mutate: func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "abcdef", "abcdef" }, wantErr: true},
		{name: "short password", mutate: func(r *RegisterRequest) { r.Password, r.ConfirmPassword = "Ab1", "Ab1" }, wantErr: true},
		{name: "mismatch", mutate: func(r *RegisterRequest) { r.ConfirmPassword = "Abc124" }, wantErr: true},
		{name: "missing lastname", mutate: func(r *RegisterRequest) { r.Lastname = "" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSetRolesRequest(t *testing.T) {
	req := SetRolesRequest{Roles: []string{"client", "ticket-checker"}}
	assert.NoError(t, req.Validate())
	assert.Equal(t, []domain.Role{domain.RoleClient, domain.RoleTicketChecker}, req.DomainRoles())

	req = SetRolesRequest{Roles: []string{"superuser"}}
	assert.Error(t, req.Validate())

	req = SetRolesRequest{}
	assert.Error(t, req.Validate())
}

func TestEventRequests_Validate(t *testing.T) {
	create := CreateEventRequest{Name: "Rock Fest", BannerPhotoURL: "https://cdn.example.com/rock.png"}
	assert.NoError(t, create.Validate())

	create.BannerPhotoURL = "not a url"
	assert.Error(t, create.Validate())

	empty := ""
	update := UpdateEventRequest{Name: &empty}
	assert.Error(t, update.Validate())

	hide := false
	update = UpdateEventRequest{IsPublic: &hide}
	assert.NoError(t, update.Validate())
	assert.True(t, update.Patch().Hides())
}

func TestIssueTicketRequest_Validate(t *testing.T) {
	assert.NoError(t, (&IssueTicketRequest{}).Validate())
	assert.NoError(t, (&IssueTicketRequest{Quantity: 10}).Validate())
	assert.Error(t, (&IssueTicketRequest{Quantity: 11}).Validate())
	assert.Error(t, (&IssueTicketRequest{Quantity: -1}).Validate())
}
