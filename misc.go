package main

import ("strings"
        "sort"
        "log"
        "bufio"
        "os")

func recovery_function () {
    if r := recover(); r != nil {
        log.Println (r)
        return
    }
}

func IntPow(n, m int) int {
    if m == 0 {
        return 1
    }
    result := n
    for i := 2; i <= m; i++ {
        result *= n
    }
    return result
}

func same (s []string) bool {
    ref := s[0]
    for _, string := range s[1:] {
        if ref != string {
            return false
        }
    }
    return true
}

func longestCommonPrefix (prefixes []string) string {
    if len (prefixes) == 0 {
        return ""
    }

    sort.Sort(ByLen(prefixes))

    lc := ""
    smallest := prefixes[0]

    for index:= 0; index < len (smallest); index++ {
        present := true

        for _,s := range prefixes[1:] {
            if s[index] != smallest[index] {
                present = false
                break
            }
        }

        if !present {
            break
        } else {
            lc += string(smallest[index])
        }
    }
    return lc
}

type ByLen []string

func (a ByLen) Len() int {
   return len(a)
}

func (a ByLen) Less(i, j int) bool {
   return len(a[i]) < len(a[j])
}

func (a ByLen) Swap(i, j int) {
   a[i], a[j] = a[j], a[i]
}

func slice_to_map (s []string) map[string]interface{} {
    m := make (map[string]interface{})
    for _, x := range s {
        m[x] = struct{}{}
    }
    return m
}

/**
 * Splits a comma-separated list, dropping empty elements.
 */
func split_comma_list (s string) []string {
    r := make ([]string, 0, 4)
    for _, x := range strings.Split (s, ",") {
        x = strings.TrimSpace (x)
        if x != "" {
            r = append (r, x)
        }
    }
    return r
}

func new_bufio_writer (output_file string) (*bufio.Writer, *os.File) {
    file, err := os.Create(output_file)
    if err != nil {
      log.Fatal(err)
    }
    return bufio.NewWriter(file), file
}
