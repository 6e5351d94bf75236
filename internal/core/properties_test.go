package core

import "testing"

func TestEnvProperties(t *testing.T) {
	t.Setenv("COMPOSEENV_STACK_NAME", "shop")
	t.Setenv("COMPOSEENV_POLL_SECONDS", "")

	props := EnvProperties()

	if v, ok := props.Get(PropStackName); !ok || v != "shop" {
		t.Errorf("Get(%s) = %q, %v", PropStackName, v, ok)
	}
	if _, ok := props.Get(PropPollSec); ok {
		t.Error("empty environment value should count as unset")
	}
	if _, ok := props.Get(PropTimeoutSec); ok {
		t.Error("absent environment value should count as unset")
	}

	t.Setenv("COMPOSEENV_COMPOSE_PROJECT", "sentinel")
	props.Set(PropComposeProject, "shop-t-20260314150926")
	if v, ok := props.Get(PropComposeProject); !ok || v != "shop-t-20260314150926" {
		t.Errorf("Set/Get round trip = %q, %v", v, ok)
	}
}

func TestMapProperties(t *testing.T) {
	t.Parallel()

	props := NewMapProperties()
	if _, ok := props.Get("composeenv.stack.name"); ok {
		t.Error("fresh store should be empty")
	}
	props.Set("composeenv.stack.name", "shop")
	if v, ok := props.Get("composeenv.stack.name"); !ok || v != "shop" {
		t.Errorf("Get = %q, %v", v, ok)
	}
	props.Set("composeenv.stack.name", "")
	if _, ok := props.Get("composeenv.stack.name"); ok {
		t.Error("empty value should count as unset")
	}
}
