package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_PostForm(t *testing.T) {
	tests := []struct {
		name      string
		form      PostForm
		wantField string
	}{
		{"Valid", PostForm{Text: "hello"}, ""},
		{"Valid with group", PostForm{Text: "hello", Group: "3"}, ""},
		{"Blank text", PostForm{Text: "  \n "}, "text"},
		{"Empty text", PostForm{}, "text"},
		{"Group not a number", PostForm{Text: "hello", Group: "cats"}, "group"},
		{"Group zero", PostForm{Text: "hello", Group: "0"}, "group"},
		{"Group negative", PostForm{Text: "hello", Group: "-1"}, "group"},
		{"Group past 32 bits", PostForm{Text: "hello", Group: "4294967296"}, "group"},
		{"Group overflows", PostForm{Text: "hello", Group: "99999999999999999999"}, "group"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.form)
			if tt.wantField == "" {
				assert.False(t, errs.Any(), "%v", errs)
				return
			}
			assert.True(t, errs.Has(tt.wantField), "%v", errs)
		})
	}
}

func TestPostForm_GroupID(t *testing.T) {
	assert.Nil(t, (&PostForm{}).GroupID())
	assert.Nil(t, (&PostForm{Group: "0"}).GroupID())
	assert.Nil(t, (&PostForm{Group: "4294967296"}).GroupID())

	id := (&PostForm{Group: "12"}).GroupID()
	require.NotNil(t, id)
	assert.Equal(t, uint(12), *id)
}

func TestValidate_SignupForm(t *testing.T) {
	valid := SignupForm{Username: "leo.tolstoy+1@", Password1: "war-and-peace", Password2: "war-and-peace"}
	assert.False(t, Validate(&valid).Any())

	bad := SignupForm{Username: "leo tolstoy", Email: "not-an-email", Password1: "short", Password2: "other"}
	errs := Validate(&bad)
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("email"))
	assert.Equal(t, "Ensure this value has at least 8 characters.", errs.First("password1"))
	assert.Equal(t, "The two password fields didn't match.", errs.First("password2"))
}

func TestValidate_LoginForm(t *testing.T) {
	errs := Validate(&LoginForm{})
	assert.Equal(t, "This field is required.", errs.First("username"))
	assert.Equal(t, "This field is required.", errs.First("password"))
}

func TestErrors_Add(t *testing.T) {
	errs := Validate(&CommentForm{Text: "ok"})
	require.NotNil(t, errs)
	assert.False(t, errs.Any())

	errs.Add(NonField, "Something went wrong")
	assert.True(t, errs.Any())
	assert.Equal(t, "Something went wrong", errs.First(NonField))
	assert.Equal(t, "", errs.First("text"))
}
