package checkout

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"

	"balloonshop/models"
)

type Form struct {
	FullName      string               `json:"fullName" validate:"required"`
	Email         string               `json:"email" validate:"required"`
	Phone         string               `json:"phone" validate:"required"`
	Address       string               `json:"address" validate:"required"`
	Pincode       string               `json:"pincode" validate:"required"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" validate:"oneof=cod upi"`
}

// DefaultForm is the empty form with cash on delivery preselected.
func DefaultForm() Form {
	return Form{PaymentMethod: models.CashOnDelivery}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (f Form) normalize() Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.Pincode = strings.TrimSpace(f.Pincode)
	if f.PaymentMethod == "" {
		f.PaymentMethod = models.CashOnDelivery
	}
	return f
}

// Validate reports every missing required field in one NotValid error.
// Fields that are present but hold an unsupported value are reported only
// when nothing is missing.
func (f Form) Validate() error {
	missing, invalid, err := f.check()
	switch {
	case err != nil:
		return err
	case len(missing) > 0:
		return errors.NotValidf("missing required fields: %s", strings.Join(missing, ", "))
	case len(invalid) > 0:
		return errors.NotValidf("invalid value for %s", strings.Join(invalid, ", "))
	}
	return nil
}

func (f Form) check() (missing, invalid []string, err error) {
	err = validate.Struct(f)
	if err == nil {
		return nil, nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, nil, errors.Trace(err)
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}
	return missing, invalid, nil
}

// ShippingAddress joins address and pincode the way the order row stores it.
func (f Form) ShippingAddress() string {
	return f.Address + " - " + f.Pincode
}
