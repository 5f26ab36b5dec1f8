package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jeerawut3427/personal-system/internal/app"
	"github.com/jeerawut3427/personal-system/internal/domain"
)

var errUsage = errors.New("คำสั่งไม่ถูกต้อง พิมพ์ help เพื่อดูรายการคำสั่ง")

const help = `open <pane>                      เปิดหน้า (dashboard, submit-status, history, ...)
reload                           โหลดข้อมูลหน้าปัจจุบันใหม่
search <คำค้น>                   ค้นหาในหน้ากำลังพลหรือผู้ใช้
page <n>                         ไปยังหน้าที่ n
person-save key=value ...        เพิ่ม/แก้ไขกำลังพล (id rank first last position specialty department)
person-show <id> | person-delete <id>
person-import <file.xlsx> | person-template
user-save new|update key=value ... (username password rank first last position department role)
user-show <username> | user-delete <username>
dept <แผนก>                      เลือกแผนก (ผู้ดูแลระบบ)
status <row> <สถานะ> | details <row> <ข้อความ> | dates <row> <เริ่ม> <สิ้นสุด>
add <row> | remove <row> | clear | review | back | submit
edit <report-id>                 แก้ไขรายงานจากประวัติการส่ง
history <ปี> <เดือน>
export-archive                   ส่งออก Excel และเก็บรายงานประจำสัปดาห์
months <ปี> | archive <ปี> <เดือน> | download <วันที่> | monthly
logout | quit`

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	return strings.ToLower(fields[0]), fields[1:]
}

func atoi(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errUsage
	}
	return n, nil
}

// fields parses key=value arguments.
func fields(args []string) map[string]string {
	out := make(map[string]string, len(args))
	for _, a := range args {
		if k, v, ok := strings.Cut(a, "="); ok {
			out[strings.ToLower(k)] = v
		}
	}
	return out
}

func dispatch(ctx context.Context, a *app.App, out io.Writer, cmd string, args []string) error {
	need := func(n int) error {
		if len(args) < n {
			return errUsage
		}
		return nil
	}
	if err := need(minArgs[cmd]); err != nil {
		return err
	}

	switch cmd {
	case "help":
		fmt.Fprintln(out, help)
	case "open":
		return a.Open(ctx, args[0])
	case "reload":
		return a.Reload(ctx)
	case "search":
		term := strings.Join(args, " ")
		if a.Current().Tab() == "admin" {
			return a.SearchUsers(ctx, term)
		}
		return a.SearchPersonnel(ctx, term)
	case "page":
		n, err := atoi(args[0])
		if err != nil {
			return err
		}
		if a.Current().Tab() == "admin" {
			return a.SetUserPage(ctx, n)
		}
		return a.SetPersonnelPage(ctx, n)

	case "person-save":
		f := fields(args)
		return a.SavePersonnel(ctx, domain.Person{
			ID: f["id"], Rank: f["rank"], FirstName: f["first"], LastName: f["last"],
			Position: f["position"], Specialty: f["specialty"], Department: f["department"],
		})
	case "person-show":
		p, err := a.FindPersonnel(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.DisplayName(), p.Position, p.Specialty, p.Department)
	case "person-delete":
		return a.DeletePersonnel(ctx, args[0])
	case "person-import":
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return a.ImportPersonnel(ctx, f)
	case "person-template":
		path, err := a.PersonnelTemplate()
		if err == nil {
			fmt.Fprintln(out, path)
		}
		return err

	case "user-save":
		f := fields(args[1:])
		return a.SaveUser(ctx, domain.User{
			Username: f["username"], Password: f["password"], Rank: f["rank"], FirstName: f["first"],
			LastName: f["last"], Position: f["position"], Department: f["department"], Role: domain.Role(f["role"]),
		}, args[0] == "new")
	case "user-show":
		u, err := a.FindUser(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", u.Username, u.FullName(), u.Department, u.Role.Label())
	case "user-delete":
		return a.DeleteUser(ctx, args[0])

	case "dept":
		return a.SelectDepartment(strings.Join(args, " "))
	case "status":
		row, err := atoi(args[0])
		if err != nil {
			return err
		}
		return a.SetStatus(row, domain.Status(args[1]))
	case "details":
		row, err := atoi(args[0])
		if err != nil {
			return err
		}
		return a.SetDetails(row, strings.Join(args[1:], " "))
	case "dates":
		row, err := atoi(args[0])
		if err != nil {
			return err
		}
		return a.SetDates(row, args[1], args[2])
	case "add":
		row, err := atoi(args[0])
		if err != nil {
			return err
		}
		_, err = a.AddEntry(row)
		return err
	case "remove":
		row, err := atoi(args[0])
		if err != nil {
			return err
		}
		return a.RemoveEntry(row)
	case "clear":
		return a.ClearAll()
	case "review":
		_, err := a.Review()
		return err
	case "back":
		return a.BackToForm()
	case "submit":
		return a.Submit(ctx)
	case "edit":
		return a.EditHistoryReport(ctx, args[0])
	case "history":
		_, err := a.ShowHistory(args[0], args[1])
		return err

	case "export-archive":
		path, err := a.ExportAndArchive(ctx)
		if path != "" {
			fmt.Fprintln(out, path)
		}
		return err
	case "months":
		_, err := a.ArchiveMonths(args[0])
		return err
	case "archive":
		_, err := a.ShowArchive(args[0], args[1])
		return err
	case "download":
		path, err := a.DownloadArchiveDay(args[0])
		if err == nil {
			fmt.Fprintln(out, path)
		}
		return err
	case "monthly":
		path, err := a.ExportMonthlySummary()
		if err == nil {
			fmt.Fprintln(out, path)
		}
		return err
	default:
		return errUsage
	}
	return nil
}

var minArgs = map[string]int{
	"open": 1, "page": 1, "person-show": 1, "person-delete": 1, "person-import": 1,
	"user-save": 1, "user-show": 1, "user-delete": 1, "dept": 1,
	"status": 2, "details": 1, "dates": 3, "add": 1, "remove": 1,
	"edit": 1, "history": 2, "months": 1, "archive": 2, "download": 1,
}
