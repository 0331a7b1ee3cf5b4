package cli

import (
	"fmt"

	"github.com/dmitrijs2005/timecapsule/internal/pricing"
	"github.com/dmitrijs2005/timecapsule/internal/wizard"
)

// status is shown in the prompt: the wizard step and, on INFO, the running
// estimate.
func (a *App) status() string {
	switch a.wizard.Step() {
	case wizard.StepInfo:
		return fmt.Sprintf("(%s %s)", a.wizard.Step(), pricing.FormatWon(a.wizard.Estimate().TotalPrice))
	default:
		return fmt.Sprintf("(%s)", a.wizard.Step())
	}
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"login":  {usage: "login", help: "store an access token", run: a.Login},
		"logout": {usage: "logout", help: "remove the stored token", run: a.Logout},

		"new":    {usage: "new", help: "start a new capsule", run: a.New},
		"drafts": {usage: "drafts", help: "list saved drafts", run: a.Drafts},
		"resume": {usage: "resume [id]", help: "continue a saved draft (last one by default)", run: a.Resume},

		"name":    {usage: "name <text>", help: "set the capsule name", run: a.SetName},
		"content": {usage: "content", help: "write the capsule text", run: a.SetContent},
		"date":    {usage: "date week|month|year|YYYY-MM-DD", help: "choose when the capsule opens", run: a.SetDate},
		"people":  {usage: "people <n>", help: "set the number of participants", run: a.SetPersonnel},
		"photos":  {usage: "photos <n>", help: "set the number of photo slots", run: a.SetStorage},
		"music":   {usage: "music on|off", help: "toggle the music add-on", run: a.SetMusic},
		"video":   {usage: "video on|off", help: "toggle the video add-on", run: a.SetVideo},
		"attach":  {usage: "attach image|video|music <path>", help: "attach a file", run: a.Attach},
		"detach":  {usage: "detach image|video|music", help: "remove an attachment", run: a.Detach},
		"upload":  {usage: "upload", help: "upload pending attachments", run: a.Upload},
		"show":    {usage: "show", help: "show the current step", run: a.Show},
		"next":    {usage: "next", help: "continue to payment", run: a.Next},
		"back":    {usage: "back", help: "go back to editing", run: a.Back},

		"agree":   {usage: "agree all|service|privacy|payment", help: "accept terms", run: a.Agree},
		"pay":     {usage: "pay", help: "create the order and start Kakao Pay", run: a.Pay},
		"approve": {usage: "approve <pg_token>", help: "confirm the payment", run: a.Approve},

		"refresh":  {usage: "refresh", help: "reload the room", run: a.Refresh},
		"finalize": {usage: "finalize", help: "seal the capsule (host only)", run: a.Finalize},

		"direct":  {usage: "direct [view_limit]", help: "create a capsule from uploaded media without payment", run: a.Direct},
		"url":     {usage: "url <media_id>", help: "print a download URL", run: a.MediaURL},
		"history": {usage: "history", help: "list completed uploads", run: a.History},
	}
}
