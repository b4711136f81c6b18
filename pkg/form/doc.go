// Package form binds declarative validation to a form in a vdom document.
//
// Rules are read from the data-* attributes of each named control, in
// declaration order:
//
//	<div class="form-group">
//	  <input name="age" data-required data-min="18" data-min-message="Adults only">
//	  <div class="invalid-feedback" hidden></div>
//	</div>
//
// A Form scans the document on every call, extracts each field's value,
// resolves its rules against the built-ins and the custom validators given
// in Config.Validate, and hands the verdict to a Presenter. The default
// DOMPresenter writes the message into the field's feedback element and
// toggles the is-invalid and has-error classes.
//
// # Usage
//
//	f, err := form.New(doc, "#signup", &form.Config{
//	    Validate: map[string]rules.Validator{
//	        "email": rules.Email(""),
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//	f.Update(map[string]string{"age": "17"})
//	if !f.Validate() {
//	    fmt.Println(f.Errors()["age"].Message) // Adults only
//	}
//
// Disabled controls (native disabled or data-disabled) and controls that
// are not visible are skipped and have any existing error cleared.
package form
