package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/vietddude/crosspay/internal/core/classifier"
	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/core/send"
)

const timeLayout = "2006-01-02 15:04:05"

func printAnalysis(w io.Writer, c classifier.Classification) {
	info := c.Info()
	_, _ = fmt.Fprintln(w, "Trust Score Analysis")
	_, _ = fmt.Fprintf(w, "  Address: %s\n", c.Address)
	_, _ = fmt.Fprintf(w, "  Status:  %s - %s (%s)\n", c.Category, info.Label, info.TrustRange)
	if !c.Found {
		_, _ = fmt.Fprintln(w, "  Unknown Address: This address is not in our trusted database and will be treated as high-risk.")
	}
	if c.Note != "" {
		_, _ = fmt.Fprintf(w, "  Note:    %s\n", c.Note)
	}
	_, _ = fmt.Fprintf(w, "  Recommendation: %s\n", info.Advice)
}

func printWarning(w io.Writer, q send.Quote) {
	info := q.Classification.Info()
	_, _ = fmt.Fprintln(w, "Security Warning")
	_, _ = fmt.Fprintf(w, "  Address:     %s\n", q.Address)
	_, _ = fmt.Fprintf(w, "  Amount:      $%s\n", q.Amount.StringFixed(2))
	_, _ = fmt.Fprintf(w, "  Trust Score: %s - %s (%s)\n", q.Classification.Category, info.Label, info.TrustRange)
	if q.Classification.Note != "" {
		_, _ = fmt.Fprintf(w, "  Note:        %s\n", q.Classification.Note)
	}
	_, _ = fmt.Fprintf(w, "  Recommendation: %s\n", info.Advice)
}

func printSent(w io.Writer, tx domain.TxRecord) {
	_, _ = fmt.Fprintf(w, "Payment of $%s sent successfully! TX: %s\n", tx.Amount.StringFixed(2), tx.TxID)
}

func printTransactions(w io.Writer, txs []domain.TxRecord) {
	if len(txs) == 0 {
		_, _ = fmt.Fprintln(w, "No transactions yet. Send your first payment to see history here.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tAMOUNT\tTO\tTX ID")
	for _, tx := range txs {
		_, _ = fmt.Fprintf(tw, "%s\t$%s\t%s\t%s\n",
			tx.Timestamp.Local().Format(timeLayout), tx.Amount.StringFixed(2), tx.ToAddress, tx.TxID)
	}
	_ = tw.Flush()
}

func printAddresses(w io.Writer, entries []domain.AddressEntry) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "No addresses added yet. Add your first trusted address above.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ADDRESS\tCATEGORY\tADDED\tNOTE")
	for _, e := range entries {
		info := e.Category.Info()
		_, _ = fmt.Fprintf(tw, "%s\t%s - %s\t%s\t%s\n",
			e.Address, e.Category, info.Label, e.CreatedAt.Local().Format(timeLayout), e.Note)
	}
	_ = tw.Flush()
}

func printCategories(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CATEGORY\tLABEL\tTRUST\tCONFIRM\tADVICE")
	for _, c := range domain.Categories() {
		info := c.Info()
		confirm := "no"
		if send.RequiresConfirmation(c) {
			confirm = "yes"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c, info.Label, info.TrustRange, confirm, info.Advice)
	}
	_ = tw.Flush()
}

func printSession(w io.Writer, s domain.AdminSession) {
	if !s.IsAuthenticated {
		_, _ = fmt.Fprintln(w, "Not logged in")
		return
	}
	_, _ = fmt.Fprintf(w, "Logged in since %s, session expires %s (in %s)\n",
		s.LoginTime.Local().Format(timeLayout),
		s.ExpiresAt.Local().Format(timeLayout),
		time.Until(s.ExpiresAt).Round(time.Minute))
}
