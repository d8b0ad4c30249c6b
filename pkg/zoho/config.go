package zoho

import "time"

// Config holds the Zoho OAuth and People API settings.
// AccountsBase is the accounts host for the data center in use,
// e.g. https://accounts.zoho.in.
type Config struct {
	ClientID      string        `env:"ZOHO_CLIENT_ID,required"`
	ClientSecret  string        `env:"ZOHO_CLIENT_SECRET,required"`
	RedirectURI   string        `env:"ZOHO_REDIRECT_URI,required"`
	AccountsBase  string        `env:"OAUTH_BASE,required"`
	Scopes        []string      `env:"ZOHO_SCOPES" envSeparator:"," envDefault:"ZohoPeople.employee.READ,ZohoPeople.leave.ALL,ZohoPeople.attendance.READ,ZohoPeople.forms.ALL,AaaServer.profile.READ"`
	PeopleAPIBase string        `env:"PEOPLE_API_BASE" envDefault:"https://people.zoho.in/people/api/forms/P_EmployeeView/records"`
	HTTPTimeout   time.Duration `env:"ZOHO_HTTP_TIMEOUT" envDefault:"10s"`
}
