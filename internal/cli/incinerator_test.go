package cli_test

import (
	"strings"
	"testing"
	"time"

	"toyproc/internal/cli"
)

func assertContains(t *testing.T, output, substr string) {
	t.Helper()

	if !strings.Contains(output, substr) {
		t.Errorf("output should contain %q\noutput:\n%s", substr, output)
	}
}

func assertNotContains(t *testing.T, output, substr string) {
	t.Helper()

	if strings.Contains(output, substr) {
		t.Errorf("output should not contain %q\noutput:\n%s", substr, output)
	}
}

func TestIncineratorRejectsArgumentsOutsideTheBank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		arg  string
	}{
		{name: "zero", arg: "0"},
		{name: "negative", arg: "-3"},
		{name: "first core past the bank", arg: "4"},
		{name: "high single digit", arg: "9"},
		{name: "two digits", arg: "15"},
		{name: "not a number", arg: "abc"},
		{name: "empty string", arg: ""},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)

			stdout, code := c.Incinerate(testCase.arg)

			if code != 1 {
				t.Errorf("exit code = %d, want 1 after the hold falls through", code)
			}

			assertContains(t, stdout, "You'll miss the party -- "+testCase.arg)
			assertNotContains(t, stdout, "incinerated")
			assertNotContains(t, stdout, "System error.")
		})
	}
}

func TestIncineratorTripsSystemErrorOnFirstValidCore(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"1", "2", "3"} {
		t.Run("core "+arg, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)

			run := c.Start(arg)
			code := run.Wait(t)

			if code != 0 {
				t.Errorf("exit code = %d, want 0 on health failure", code)
			}

			stdout := run.Out.String()
			assertContains(t, stdout, "Core number "+arg+" incinerated.")
			assertContains(t, stdout, "System error.")

			// The main flow won the race; the release never got to
			// terminate anything.
			select {
			case <-run.Exit.Fired():
				t.Error("release should not have fired during a fast main flow")
			default:
			}
		})
	}
}

func TestIncineratorStopsAtFirstHealthFailure(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, code := c.Incinerate("1", "2", "3")

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	assertContains(t, stdout, "Core number 1 incinerated.")
	assertNotContains(t, stdout, "Core number 2")
	assertNotContains(t, stdout, "Core number 3")
}

func TestIncineratorSkipsRejectsAndKeepsWalking(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, code := c.Incinerate("abc", "7", "2")

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	party := strings.Index(stdout, "You'll miss the party -- abc")
	partySeven := strings.Index(stdout, "You'll miss the party -- 7")
	core := strings.Index(stdout, "Core number 2 incinerated.")

	if party == -1 || partySeven == -1 || core == -1 {
		t.Fatalf("missing expected lines in output:\n%s", stdout)
	}

	if !(party < partySeven && partySeven < core) {
		t.Errorf("lines out of order in output:\n%s", stdout)
	}

	assertContains(t, stdout, "System error.")
}

func TestIncineratorParsesLeadingDigitsOfArguments(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, code := c.Incinerate("2junk")

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	assertContains(t, stdout, "Core number 2 incinerated.")
}

func TestIncineratorHoldFallsThroughWhenReleaseNeverFires(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout, code := c.Incinerate()

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	assertNotContains(t, stdout, "Releasing neurotoxins")
	assertNotContains(t, stdout, "System error.")
}

func TestIncineratorReleaseFiresWhileMainFlowHolds(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WarmStep = 100 * time.Microsecond
	c.Hold = time.Minute

	run := c.Start()
	defer run.Stop()

	select {
	case <-run.Exit.Fired():
	case <-time.After(10 * time.Second):
		t.Fatal("release did not fire")
	}

	codes := run.Exit.Codes()
	if len(codes) == 0 || codes[0] != 1 {
		t.Errorf("release exit codes = %v, want [1]", codes)
	}

	stdout := run.Out.String()
	assertContains(t, stdout, "Warming neurotoxins, please wait.")
	assertContains(t, stdout, "Releasing neurotoxins. Have a nice day.")

	warming := strings.Index(stdout, "Warming neurotoxins")
	releasing := strings.Index(stdout, "Releasing neurotoxins")

	if warming > releasing {
		t.Errorf("warming notice should precede the release notice:\n%s", stdout)
	}
}

// Exercises the termination race with both sides armed on close timers.
// Whoever wins, the observable status is always 1.
func TestIncineratorRaceAlwaysEndsWithStatusOne(t *testing.T) {
	t.Parallel()

	for range 10 {
		c := cli.NewCLI(t)
		c.WarmStep = 200 * time.Microsecond
		c.Hold = time.Millisecond

		run := c.Start()
		code := run.Wait(t)

		if code != 1 {
			t.Fatalf("main flow exit code = %d, want 1", code)
		}

		for _, released := range run.Exit.Codes() {
			if released != 1 {
				t.Fatalf("release exit code = %d, want 1", released)
			}
		}
	}
}
