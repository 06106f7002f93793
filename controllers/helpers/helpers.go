package helpers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gookit/validate"

	"github.com/zsmartex/mlm/config"
	"github.com/zsmartex/mlm/jobs"
	"github.com/zsmartex/mlm/services"
)

type Errors struct {
	Errors []string `json:"errors"`
}

func (e Errors) Size() int {
	return len(e.Errors)
}

func Vaildate(payload interface{}, err_src *Errors) {
	v := validate.Struct(payload)
	if !v.Validate() {
		for _, errs := range v.Errors.All() {
			for _, err := range errs {
				err_src.Errors = append(err_src.Errors, err)
			}
		}
	}
}

// VaildateMessage maps every validator failure to "<prefix>.invalid_{field}".
func VaildateMessage(prefix string) map[string]string {
	invalid_message := prefix + ".invalid_{field}"

	return validate.MS{
		"required":       invalid_message,
		"uint":           invalid_message,
		"min":            invalid_message,
		"max":            invalid_message,
		"ValidateAmount": prefix + ".non_positive_amount",
		"ValidateState":  invalid_message,
		"ValidateMonth":  invalid_message,
	}
}

func VaildateTranslateFields() map[string]string {
	return validate.MS{
		"ExpiryDays": "expiry_days",
		"RankID":     "rank_id",
		"MemberUID":  "member_uid",
	}
}

// Response is the envelope of every engine operation.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(200).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail renders err with a status derived from its kind. Internal failures are logged and
// reported without their details.
func Fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, jobs.ErrAlreadyRunning) {
		return c.Status(409).JSON(Response{
			Message: "Job is already running",
			Errors:  []string{"cron.already_running"},
		})
	}

	e, message := services.AsError(err)

	status := 500
	switch e.Kind {
	case services.KindValidation:
		status = 422
	case services.KindStateConflict:
		status = 409
	case services.KindResource:
		status = 404
	default:
		config.Logger.Errorf("Request %s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(Response{
		Message: message,
		Errors:  []string{e.Code},
	})
}

func Engine() *services.Engine {
	return services.NewEngine(config.DataBase)
}
