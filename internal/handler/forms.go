package handler

import (
	"strings"

	"github.com/cloudchaser/dashboard/internal/model"
)

// HTML forms post strings; these types bind them, carry the validation
// rules and turn into API payloads.

type clientForm struct {
	Name        string `form:"name" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"omitempty,password"`
	PhoneNumber string `form:"phone_number"`
	Address     string `form:"address"`
	Role        string `form:"role" validate:"required,role"`
}

func (f clientForm) checkCreate() map[string]string {
	if f.Password == "" {
		return map[string]string{"password": "This field is required."}
	}
	return nil
}

func (f clientForm) input() (model.UserInput, error) {
	role, _ := model.ParseRole(f.Role)
	return model.UserInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		Password:    f.Password,
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Address:     strings.TrimSpace(f.Address),
		Role:        role,
	}, nil
}

func clientFormOf(u model.User) clientForm {
	return clientForm{Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber, Address: u.Address, Role: string(u.Role)}
}

type campaignForm struct {
	Name      string `form:"name" validate:"required"`
	ProductID uint64 `form:"id_product" validate:"required"`
	ClientID  uint64 `form:"id_user" validate:"required"`
	Status    string `form:"status" validate:"required,campaign_status"`
	StartDate string `form:"start_date" validate:"required,date"`
	EndDate   string `form:"end_date" validate:"required,date,notbefore=StartDate"`
}

func (f campaignForm) input() (model.CampaignInput, error) {
	start, end, err := parseRange(f.StartDate, f.EndDate)
	if err != nil {
		return model.CampaignInput{}, err
	}
	return model.CampaignInput{
		Name:      strings.TrimSpace(f.Name),
		ProductID: f.ProductID,
		ClientID:  f.ClientID,
		Status:    model.CampaignStatus(f.Status),
		StartDate: start,
		EndDate:   end,
	}, nil
}

func campaignFormOf(c model.Campaign) campaignForm {
	return campaignForm{
		Name:      c.Name,
		ProductID: c.ProductID,
		ClientID:  c.ClientID,
		Status:    string(c.Status),
		StartDate: c.StartDate.String(),
		EndDate:   c.EndDate.String(),
	}
}

// myCampaignForm is a client's campaign request.  The backend sets the
// owner and starts it as Pending.
type myCampaignForm struct {
	Name      string `form:"name" validate:"required"`
	ProductID uint64 `form:"id_product" validate:"required"`
	StartDate string `form:"start_date" validate:"required,date"`
	EndDate   string `form:"end_date" validate:"required,date,notbefore=StartDate"`
}

func (f myCampaignForm) input() (model.CampaignInput, error) {
	start, end, err := parseRange(f.StartDate, f.EndDate)
	if err != nil {
		return model.CampaignInput{}, err
	}
	return model.CampaignInput{Name: strings.TrimSpace(f.Name), ProductID: f.ProductID, StartDate: start, EndDate: end}, nil
}

type componentForm struct {
	Name        string `form:"name" validate:"required"`
	Type        string `form:"component_type" validate:"required"`
	UnitCost    string `form:"unit_cost" validate:"required,money"`
	Description string `form:"description"`
}

func (f componentForm) input() (model.ComponentInput, error) {
	cost, err := model.ParseMoney(f.UnitCost)
	if err != nil {
		return model.ComponentInput{}, err
	}
	return model.ComponentInput{
		Name:        strings.TrimSpace(f.Name),
		Type:        strings.TrimSpace(f.Type),
		UnitCost:    cost,
		Description: strings.TrimSpace(f.Description),
	}, nil
}

func componentFormOf(c model.Component) componentForm {
	return componentForm{Name: c.Name, Type: c.Type, UnitCost: c.UnitCost.String(), Description: c.Description}
}

type productForm struct {
	Name         string `form:"name" validate:"required"`
	Description  string `form:"description"`
	MonthlyPrice string `form:"monthly_price" validate:"required,money"`
	IsActive     bool   `form:"is_active"`
}

func (f productForm) input() (model.ProductInput, error) {
	price, err := model.ParseMoney(f.MonthlyPrice)
	if err != nil {
		return model.ProductInput{}, err
	}
	return model.ProductInput{
		Name:         strings.TrimSpace(f.Name),
		Description:  strings.TrimSpace(f.Description),
		MonthlyPrice: price,
		IsActive:     f.IsActive,
	}, nil
}

func productFormOf(p model.Product) productForm {
	return productForm{Name: p.Name, Description: p.Description, MonthlyPrice: p.MonthlyPrice.String(), IsActive: p.IsActive}
}

// packageForm creates a link; on edit only Quantity is posted and the ids
// stay zero so the payload carries the quantity alone.
type packageForm struct {
	ProductID   uint64 `form:"id_product"`
	ComponentID uint64 `form:"id_component"`
	Quantity    int    `form:"quantity" validate:"gte=0"`

	// Display only, shown read-only when editing.
	Product   string `form:"-"`
	Component string `form:"-"`
}

func (f packageForm) checkCreate() map[string]string {
	errs := map[string]string{}
	if f.ProductID == 0 {
		errs["id_product"] = "This field is required."
	}
	if f.ComponentID == 0 {
		errs["id_component"] = "This field is required."
	}
	return errs
}

func (f packageForm) input() (model.PackageInput, error) {
	return model.PackageInput{ProductID: f.ProductID, ComponentID: f.ComponentID, Quantity: f.Quantity}, nil
}

func packageFormOf(p model.Package) packageForm {
	return packageForm{Quantity: p.Quantity, Product: p.ProductName, Component: p.ComponentName}
}

// registerForm is the self-service signup form.
type registerForm struct {
	Name        string `form:"name" validate:"required"`
	Email       string `form:"email" validate:"required,email"`
	Password    string `form:"password" validate:"required,password"`
	Confirm     string `form:"confirm_password" validate:"required,eqfield=Password"`
	PhoneNumber string `form:"phone_number"`
	Address     string `form:"address"`
}

func (f registerForm) input() model.RegisterInput {
	return model.RegisterInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.ToLower(strings.TrimSpace(f.Email)),
		Password:    f.Password,
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Address:     strings.TrimSpace(f.Address),
	}
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func parseRange(from, to string) (model.Date, model.Date, error) {
	start, err := model.ParseDate(from)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	end, err := model.ParseDate(to)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return start, end, nil
}
