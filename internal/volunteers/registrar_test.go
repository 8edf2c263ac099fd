package volunteers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kikuna-park/backend/internal/models"
)

type fakeVolunteerStore struct {
	created  []*models.Volunteer
	existing map[string]*models.Volunteer // key: email + "/" + name
	err      error
}

func (s *fakeVolunteerStore) FindByEmailAndName(ctx context.Context, email, name string) (*models.Volunteer, error) {
	return s.existing[email+"/"+name], nil
}

func (s *fakeVolunteerStore) Create(ctx context.Context, v *models.Volunteer) error {
	if s.err != nil {
		return s.err
	}
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	s.created = append(s.created, v)
	return nil
}

func validRegistration() Registration {
	return Registration{
		Type:         models.VolunteerTypeIndividual,
		Name:         "山田太郎",
		Email:        "taro@example.com",
		AgreeToTerms: true,
	}
}

func TestRegistrationValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Registration)
		want   string
	}{
		{"missing name", func(r *Registration) { r.Name = "" }, "氏名"},
		{"missing email", func(r *Registration) { r.Email = "" }, "メールアドレスは必須"},
		{"malformed email", func(r *Registration) { r.Email = "not-an-email" }, "有効なメールアドレス"},
		{"missing consent", func(r *Registration) { r.AgreeToTerms = false }, "個人情報"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.modify(&reg)
			errs := reg.Validate()
			found := false
			for _, e := range errs {
				if strings.Contains(e, tt.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", errs, tt.want)
			}
		})
	}

	if errs := validRegistration().Validate(); len(errs) != 0 {
		t.Errorf("valid registration rejected: %v", errs)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	store := &fakeVolunteerStore{existing: map[string]*models.Volunteer{
		"taro@example.com/山田太郎": {Name: "山田太郎", Email: "taro@example.com"},
	}}
	registrar := NewRegistrar(store)

	_, err := registrar.Register(context.Background(), validRegistration())
	if !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("err = %v, want ErrAlreadyRegistered", err)
	}
	if len(store.created) != 0 {
		t.Error("duplicate registration persisted")
	}
}

func TestRegisterSameEmailDifferentNameAllowed(t *testing.T) {
	store := &fakeVolunteerStore{existing: map[string]*models.Volunteer{
		"shared@example.com/山田太郎": {Name: "山田太郎", Email: "shared@example.com"},
	}}
	registrar := NewRegistrar(store)

	reg := validRegistration()
	reg.Name = "山田花子"
	reg.Email = "shared@example.com"
	if _, err := registrar.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestRegisterOrgNameOnlyForOrganizations(t *testing.T) {
	store := &fakeVolunteerStore{}
	registrar := NewRegistrar(store)

	reg := validRegistration()
	reg.OrgName = "森を守る会"
	v, err := registrar.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if v.OrgName != nil {
		t.Errorf("individual registration kept org name %q", *v.OrgName)
	}

	reg = validRegistration()
	reg.Type = models.VolunteerTypeOrg
	reg.Name = "鈴木一郎"
	reg.OrgName = "森を守る会"
	v, err = registrar.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if v.OrgName == nil || *v.OrgName != "森を守る会" {
		t.Errorf("OrgName = %v, want 森を守る会", v.OrgName)
	}
	if v.Type != models.VolunteerTypeOrg {
		t.Errorf("Type = %q, want org", v.Type)
	}
}

func TestRegisterUnknownTypeFallsBackToIndividual(t *testing.T) {
	store := &fakeVolunteerStore{}
	registrar := NewRegistrar(store)

	reg := validRegistration()
	reg.Type = "company"
	v, err := registrar.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if v.Type != models.VolunteerTypeIndividual {
		t.Errorf("Type = %q, want individual", v.Type)
	}
}

func TestRegisterCleansLists(t *testing.T) {
	store := &fakeVolunteerStore{}
	registrar := NewRegistrar(store)

	reg := validRegistration()
	reg.Skills = []string{" 草刈り ", "", "大工仕事"}
	reg.Interests = []string{"保全活動", "  "}
	v, err := registrar.Register(context.Background(), reg)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reflect.DeepEqual(v.Skills, []string{"草刈り", "大工仕事"}) {
		t.Errorf("Skills = %v", v.Skills)
	}
	if !reflect.DeepEqual(v.Interests, []string{"保全活動"}) {
		t.Errorf("Interests = %v", v.Interests)
	}
}

func TestRegisterPropagatesStoreError(t *testing.T) {
	store := &fakeVolunteerStore{err: errors.New("connection refused")}
	registrar := NewRegistrar(store)

	if _, err := registrar.Register(context.Background(), validRegistration()); err == nil {
		t.Fatal("store failure not propagated")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"草刈り, 大工仕事", "イベント運営、広報", " "})
	want := []string{"草刈り", "大工仕事", "イベント運営", "広報"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
}
