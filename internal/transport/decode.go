package transport

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/geotag_api/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)
	return v
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Decode fills the pointer fields of dst from a. A field that fails to convert
// or fails its validate tag is reported with its help text; only the first bad
// field in declaration order is reported, at HTTP 400.
func Decode(a *Args, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("transport: decode target must be a struct pointer, got %T", dst)
	}
	rv = rv.Elem()
	rt := rv.Type()

	bad := make(map[string]bool)
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := jsonName(f)
		if name == "" || f.Type.Kind() != reflect.Pointer {
			continue
		}
		raw, ok := a.Lookup(name)
		if !ok {
			continue
		}
		v, err := convert(raw, f.Type.Elem().Kind())
		if err != nil {
			bad[name] = true
			continue
		}
		p := reflect.New(f.Type.Elem())
		p.Elem().Set(reflect.ValueOf(v).Convert(f.Type.Elem()))
		rv.Field(i).Set(p)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			bad[fe.Field()] = true
		}
	}

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if name := jsonName(f); bad[name] {
			return apperr.FieldErrors(http.StatusBadRequest, apperr.Fields{name: helpTexts[name]})
		}
	}
	return nil
}

var errConvert = errors.New("transport: unsupported value")

func convert(raw any, kind reflect.Kind) (any, error) {
	switch kind {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		}
	case reflect.Int:
		switch v := raw.(type) {
		case string:
			return strconv.Atoi(strings.TrimSpace(v))
		case float64:
			return int(v), nil
		}
	case reflect.Float64:
		switch v := raw.(type) {
		case string:
			return strconv.ParseFloat(strings.TrimSpace(v), 64)
		case float64:
			return v, nil
		}
	}
	return nil, errConvert
}
