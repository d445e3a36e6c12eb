package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/Dhoini/Checkout-gateway/internal/domain"
)

// Поля с данными карты намеренно не имеют атрибута name: браузер
// токенизирует их на стороне клиента, и в отправку формы попадает
// только токен процессора.
const formTemplate = `{{if .Description}}<p class="gateway-description">{{.Description}}</p>
{{end}}{{if .SavedCards}}{{range $i, $card := .SavedCards}}<p class="form-row">
	<input type="radio" id="stripe_card_{{$i}}" name="wc_stripe_card" value="{{$i}}"{{if eq $i 0}} checked{{end}}>
	<label for="stripe_card_{{$i}}">Card ending with {{$card.Last4}} ({{$card.ExpMonth}}/{{$card.ExpYear}})</label>
</p>
{{end}}<p class="form-row">
	<input type="radio" id="new_card" name="wc_stripe_card" value="new">
	<label for="new_card">Use a new credit card</label>
</p>
{{end}}<div id="checkout-creditcard-form">
{{if .AdditionalFields}}	<p class="form-row form-row-first">
		<label for="billing-name">Name on Card <abbr class="required">*</abbr></label>
		<input type="text" id="billing-name" name="billing-name" class="billing-name" autocomplete="off">
	</p>
	<p class="form-row form-row-last">
		<label for="billing-zip">Billing Zip <abbr class="required">*</abbr></label>
		<input type="text" id="billing-zip" name="billing-zip" class="billing-zip" autocomplete="off">
	</p>
{{end}}	<p class="form-row">
		<label for="card-number">Card Number <abbr class="required">*</abbr></label>
		<input type="text" id="card-number" class="card-number" placeholder="&#8226;&#8226;&#8226;&#8226; &#8226;&#8226;&#8226;&#8226; &#8226;&#8226;&#8226;&#8226; &#8226;&#8226;&#8226;&#8226;" maxlength="20" autocomplete="off" pattern="\d*">
	</p>
	<p class="form-row form-row-first">
		<label for="card-expiry">Expiry (MM/YY) <abbr class="required">*</abbr></label>
		<input type="text" id="card-expiry" class="card-expiry" placeholder="MM / YY" autocomplete="off" pattern="\d*">
	</p>
	<p class="form-row form-row-last">
		<label for="card-cvc">Card Code <abbr class="required">*</abbr></label>
		<input type="text" id="card-cvc" class="card-cvc" placeholder="CVC" autocomplete="off" pattern="\d*">
	</p>
</div>
`

// FormData данные для отрисовки платежной формы
type FormData struct {
	Description      string
	SavedCards       []domain.SavedCard
	AdditionalFields bool
}

// FormRenderer отрисовывает платежную форму. Не имеет побочных эффектов
// кроме записи разметки.
type FormRenderer struct {
	tmpl *template.Template
}

// NewFormRenderer создает новый рендерер платежной формы
func NewFormRenderer() (*FormRenderer, error) {
	tmpl, err := template.New("payment_form").Parse(formTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment form template: %w", err)
	}

	return &FormRenderer{tmpl: tmpl}, nil
}

// Render пишет разметку платежной формы в w
func (r *FormRenderer) Render(w io.Writer, data FormData) error {
	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render payment form: %w", err)
	}
	return nil
}
